package service

import (
	"context"
	"fmt"
	"sort"

	"carbon-trace/internal/dataset"
	"carbon-trace/internal/domain"
	"carbon-trace/internal/repository"
	"carbon-trace/internal/similarity"
)

const (
	topPeers           = 3
	topRecommendations = 5
)

// RecommenderService sugiere atributos a cambiar mirando que redujo la huella
// de los usuarios con perfil agregado mas parecido.
type RecommenderService struct {
	aggregates repository.AggregateRepository
	reductions repository.ReductionRepository
}

func NewRecommenderService(aggregates repository.AggregateRepository, reductions repository.ReductionRepository) *RecommenderService {
	return &RecommenderService{aggregates: aggregates, reductions: reductions}
}

// Recommend colapsa los perfiles agregados a registros escalares, codifica las
// columnas categoricas con vocabularios locales a esta llamada, toma los 3
// pares mas similares por coseno y cuenta los atributos de sus registros de
// reduccion. Sin otros usuarios devuelve lista vacia, nunca error.
func (s *RecommenderService) Recommend(ctx context.Context, username string, current *domain.AggregateProfile) ([]domain.Recommendation, error) {
	if current == nil {
		return []domain.Recommendation{}, nil
	}
	others, err := s.aggregates.ListOthers(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list aggregates: %w", err)
	}
	if len(others) == 0 {
		return []domain.Recommendation{}, nil
	}

	profiles := append(append([]domain.AggregateProfile(nil), others...), *current)
	rows := collapseAggregates(profiles)
	currentRow := rows[len(rows)-1]
	scores := similarity.Scores(currentRow, rows[:len(rows)-1])

	var pooled []string
	for _, idx := range topIndices(scores, topPeers) {
		record, err := s.reductions.Find(ctx, others[idx].Username)
		if err != nil {
			return nil, fmt.Errorf("find reduction for %s: %w", others[idx].Username, err)
		}
		if record == nil {
			continue
		}
		for _, share := range record.ReducingAttributes {
			pooled = append(pooled, share.Attribute)
		}
	}

	return countAttributes(pooled, topRecommendations), nil
}

// collapseAggregates reduce cada perfil a un registro plano: numericos tal
// cual, categoricos a su moda, codificada con un vocabulario fresco construido
// solo sobre esta tabla. El perfil persistido no se toca.
func collapseAggregates(profiles []domain.AggregateProfile) [][]float64 {
	rows := make([][]float64, len(profiles))
	for i := range rows {
		rows[i] = make([]float64, 0, len(domain.NumericalFields)+len(domain.CategoricalFields))
	}
	for _, col := range domain.NumericalFields {
		for i, p := range profiles {
			rows[i] = append(rows[i], p.Numerical[col])
		}
	}
	for _, col := range domain.CategoricalFields {
		vocab := dataset.NewVocabulary()
		for i, p := range profiles {
			rows[i] = append(rows[i], float64(vocab.Add(p.Categorical[col].Current)))
		}
	}
	return rows
}

// topIndices devuelve los indices de los k mayores scores, descendente;
// en empate conserva el orden original.
func topIndices(scores []float64, k int) []int {
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		return scores[idxs[a]] > scores[idxs[b]]
	})
	if len(idxs) > k {
		idxs = idxs[:k]
	}
	return idxs
}

// countAttributes cuenta frecuencias preservando orden de primera aparicion.
func countAttributes(names []string, limit int) []domain.Recommendation {
	counts := make(map[string]int, len(names))
	var order []string
	for _, name := range names {
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}
	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	recommendations := make([]domain.Recommendation, 0, len(order))
	for _, name := range order {
		recommendations = append(recommendations, domain.Recommendation{Attribute: name, Count: counts[name]})
	}
	return recommendations
}
