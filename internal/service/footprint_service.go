package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"carbon-trace/internal/dataset"
	"carbon-trace/internal/domain"
	"carbon-trace/internal/events"
	"carbon-trace/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// FootprintService orquesta el flujo de un envio: validar, codificar, predecir,
// persistir, publicar el evento, actualizar el agregado y recomendar. El
// recomendador y el bus de eventos son opcionales; con ambos apagados queda el
// flujo minimo de prediccion sobre el mismo motor.
type FootprintService struct {
	logger      *zap.Logger
	ref         *dataset.Reference
	predictor   *Predictor
	submissions repository.SubmissionRepository
	aggregates  *AggregateService
	recommender *RecommenderService
	reduction   *ReductionService
	publisher   events.Publisher
}

func NewFootprintService(
	logger *zap.Logger,
	ref *dataset.Reference,
	submissions repository.SubmissionRepository,
	aggregates *AggregateService,
	recommender *RecommenderService,
	reduction *ReductionService,
	publisher events.Publisher,
) *FootprintService {
	if publisher == nil {
		publisher = events.NewDisabledPublisher()
	}
	return &FootprintService{
		logger:      logger,
		ref:         ref,
		predictor:   NewPredictor(ref),
		submissions: submissions,
		aggregates:  aggregates,
		recommender: recommender,
		reduction:   reduction,
		publisher:   publisher,
	}
}

type SubmitResult struct {
	PredictedFootprint float64                 `json:"predicted_footprint"`
	Recommendations    []domain.Recommendation `json:"recommendations"`
}

// Submit procesa un cuestionario y devuelve la huella estimada con
// recomendaciones. Input invalido se rechaza antes de cualquier efecto.
func (s *FootprintService) Submit(ctx context.Context, username string, userData domain.QuestionnaireRecord) (SubmitResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(userData) == 0 {
		return SubmitResult{}, ErrInvalidInput
	}

	encoded := s.ref.Encode(userData)
	footprint, err := s.predictor.Predict(encoded)
	if err != nil {
		return SubmitResult{}, err
	}

	now := time.Now().UTC()
	submission := &domain.Submission{
		Username:           username,
		UserData:           userData,
		PredictedFootprint: footprint,
		Embedding:          pgvector.NewVector(toFloat32(encoded)),
		Month:              now.Month().String(),
		Year:               now.Year(),
		CreatedAt:          now,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		return SubmitResult{}, fmt.Errorf("store submission: %w", err)
	}

	// Fire-and-forget: un fallo de entrega se loguea y no revierte nada.
	event := events.Event{
		Username:           username,
		EventType:          "prediction",
		PredictedFootprint: footprint,
		UserData:           userData,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.Error(err), zap.String("username", username))
	}

	profile, err := s.aggregates.Upsert(ctx, username, userData)
	if err != nil {
		return SubmitResult{}, err
	}

	recommendations := []domain.Recommendation{}
	if s.recommender != nil {
		recommendations, err = s.recommender.Recommend(ctx, username, profile)
		if err != nil {
			return SubmitResult{}, err
		}
	}

	return SubmitResult{PredictedFootprint: footprint, Recommendations: recommendations}, nil
}

// Insights recalcula la atribucion de reducciones y devuelve el registro.
func (s *FootprintService) Insights(ctx context.Context, username string) (*domain.ReductionRecord, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidInput
	}
	if err := s.reduction.Analyze(ctx, username); err != nil {
		return nil, err
	}
	return s.reduction.Latest(ctx, username)
}

// HistoryEntry es un envio limpio para el frontend: sin Sex y con month/year
// plegados dentro del cuestionario.
type HistoryEntry struct {
	PredictedFootprint float64                    `json:"predicted_footprint"`
	UserData           domain.QuestionnaireRecord `json:"user_data"`
}

// History devuelve todos los envios del usuario, el mas reciente primero.
func (s *FootprintService) History(ctx context.Context, username string) ([]HistoryEntry, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidInput
	}
	submissions, err := s.submissions.ListByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if len(submissions) == 0 {
		return nil, ErrNotFound
	}

	entries := make([]HistoryEntry, 0, len(submissions))
	for i := len(submissions) - 1; i >= 0; i-- {
		sub := submissions[i]
		data := make(domain.QuestionnaireRecord, len(sub.UserData)+2)
		for key, value := range sub.UserData {
			if key == domain.FieldSex {
				continue
			}
			data[key] = value
		}
		data["month"] = sub.Month
		data["year"] = sub.Year
		entries = append(entries, HistoryEntry{
			PredictedFootprint: sub.PredictedFootprint,
			UserData:           data,
		})
	}
	return entries, nil
}

func toFloat32(values []float64) []float32 {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out
}
