package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"carbon-trace/internal/domain"
	"carbon-trace/internal/repository"
)

// ReductionService atribuye las bajas de huella a los campos que cambiaron
// entre envios del propio usuario.
type ReductionService struct {
	submissions repository.SubmissionRepository
	reductions  repository.ReductionRepository
}

func NewReductionService(submissions repository.SubmissionRepository, reductions repository.ReductionRepository) *ReductionService {
	return &ReductionService{submissions: submissions, reductions: reductions}
}

// Analyze recalcula el registro de reduccion completo para el usuario.
// Con menos de 2 envios no hace nada y deja el registro existente intacto.
// Escaneo O(n^2) de todos los pares en orden cronologico: aceptable porque el
// conteo de envios por usuario se mantiene chico.
func (s *ReductionService) Analyze(ctx context.Context, username string) error {
	submissions, err := s.submissions.ListByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("list submissions: %w", err)
	}
	if len(submissions) < 2 {
		return nil
	}

	total := 0.0
	contributions := make(map[string]float64)
	var firstSeen []string

	for i := 0; i < len(submissions); i++ {
		for j := i + 1; j < len(submissions); j++ {
			fpI := submissions[i].PredictedFootprint
			fpJ := submissions[j].PredictedFootprint
			if fpJ >= fpI {
				continue
			}
			amount := domain.Round2(fpI - fpJ)
			total += amount

			for _, key := range sortedKeys(submissions[j].UserData) {
				if key == domain.FieldSex {
					continue
				}
				if valuesDiffer(submissions[i].UserData[key], submissions[j].UserData[key]) {
					if _, seen := contributions[key]; !seen {
						firstSeen = append(firstSeen, key)
					}
					contributions[key] += amount
				}
			}
		}
	}

	record := &domain.ReductionRecord{
		Username:           username,
		ReducedAmount:      domain.Round2(total),
		ReducingAttributes: []domain.AttributionShare{},
		UpdatedAt:          time.Now().UTC(),
	}
	if total > 0 {
		sort.SliceStable(firstSeen, func(a, b int) bool {
			return contributions[firstSeen[a]] > contributions[firstSeen[b]]
		})
		if len(firstSeen) > topRecommendations {
			firstSeen = firstSeen[:topRecommendations]
		}
		for _, key := range firstSeen {
			record.ReducingAttributes = append(record.ReducingAttributes, domain.AttributionShare{
				Attribute: key,
				Percent:   domain.Round2(contributions[key] / total * 100),
			})
		}
	}

	if err := s.reductions.Upsert(ctx, record); err != nil {
		return fmt.Errorf("upsert reduction: %w", err)
	}
	return nil
}

// Latest devuelve el registro persistido del usuario.
func (s *ReductionService) Latest(ctx context.Context, username string) (*domain.ReductionRecord, error) {
	record, err := s.reductions.Find(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find reduction: %w", err)
	}
	if record == nil {
		return nil, ErrNotFound
	}
	return record, nil
}

// valuesDiffer compara primero como numeros; si alguno no parsea, compara como
// strings sin espacios y sin distinguir mayusculas.
func valuesDiffer(a, b any) bool {
	fa, okA := domain.NumericValue(a)
	fb, okB := domain.NumericValue(b)
	if okA && okB {
		return fa != fb
	}
	sa := strings.TrimSpace(domain.StringValue(a))
	sb := strings.TrimSpace(domain.StringValue(b))
	return !strings.EqualFold(sa, sb)
}

func sortedKeys(record domain.QuestionnaireRecord) []string {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
