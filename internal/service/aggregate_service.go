package service

import (
	"context"
	"fmt"
	"time"

	"carbon-trace/internal/domain"
	"carbon-trace/internal/repository"
)

// AggregateService mantiene el perfil acumulado por usuario.
type AggregateService struct {
	aggregates repository.AggregateRepository
}

func NewAggregateService(aggregates repository.AggregateRepository) *AggregateService {
	return &AggregateService{aggregates: aggregates}
}

// Upsert aplica un envio al perfil del usuario y persiste el documento completo.
// Numericos: nuevo = (anterior + entrante) / 2 redondeado a 2 decimales; la
// influencia del envio k-esimo hacia atras decae como 2^-k. No es una media.
// Categoricos: se anexa al historial y el valor vigente es la moda.
func (s *AggregateService) Upsert(ctx context.Context, username string, data domain.QuestionnaireRecord) (*domain.AggregateProfile, error) {
	existing, err := s.aggregates.Find(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find aggregate: %w", err)
	}

	var profile *domain.AggregateProfile
	if existing == nil {
		profile = newAggregateProfile(username, data)
	} else {
		profile = applySubmission(existing, data)
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.aggregates.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("upsert aggregate: %w", err)
	}
	return profile, nil
}

func newAggregateProfile(username string, data domain.QuestionnaireRecord) *domain.AggregateProfile {
	profile := &domain.AggregateProfile{
		Username:    username,
		Numerical:   make(map[string]float64, len(domain.NumericalFields)),
		Categorical: make(map[string]domain.CategoricalAggregate, len(domain.CategoricalFields)),
	}
	for _, col := range domain.NumericalFields {
		profile.Numerical[col] = numericOrZero(data[col])
	}
	for _, col := range domain.CategoricalFields {
		profile.Categorical[col] = domain.NewCategoricalAggregate(domain.StringValue(data[col]))
	}
	return profile
}

func applySubmission(existing *domain.AggregateProfile, data domain.QuestionnaireRecord) *domain.AggregateProfile {
	profile := &domain.AggregateProfile{
		Username:    existing.Username,
		Numerical:   make(map[string]float64, len(domain.NumericalFields)),
		Categorical: make(map[string]domain.CategoricalAggregate, len(domain.CategoricalFields)),
	}
	for _, col := range domain.NumericalFields {
		incoming := numericOrZero(data[col])
		past := existing.Numerical[col]
		profile.Numerical[col] = domain.Round2((past + incoming) / 2)
	}
	for _, col := range domain.CategoricalFields {
		profile.Categorical[col] = existing.Categorical[col].Append(domain.StringValue(data[col]))
	}
	return profile
}

func numericOrZero(v any) float64 {
	f, ok := domain.NumericValue(v)
	if !ok {
		return 0
	}
	return f
}
