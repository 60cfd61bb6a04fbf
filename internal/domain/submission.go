package domain

import (
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// Submission es un envio de cuestionario de un usuario, append-only.
// El orden de insercion (ID creciente) define la cronologia del usuario.
type Submission struct {
	ID                 int64               `json:"-"`
	Username           string              `json:"username"`
	UserData           QuestionnaireRecord `json:"user_data"`
	PredictedFootprint float64             `json:"predicted_footprint"`
	Embedding          pgvector.Vector     `json:"-"`
	Month              string              `json:"month"`
	Year               int                 `json:"year"`
	CreatedAt          time.Time           `json:"-"`
}

// Recommendation es una sugerencia agregada desde los pares mas similares.
type Recommendation struct {
	Attribute string `json:"attribute"`
	Count     int    `json:"count"`
}
