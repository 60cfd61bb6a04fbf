package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"carbon-trace/internal/domain"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.Submission) error
	ListByUsername(ctx context.Context, username string) ([]domain.Submission, error)
}

type PgSubmissionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSubmissionRepository(pool *pgxpool.Pool) *PgSubmissionRepository {
	return &PgSubmissionRepository{pool: pool}
}

func (r *PgSubmissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	const query = `
		INSERT INTO submissions (username, user_data, predicted_footprint, embedding, month, year, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	userData, err := json.Marshal(submission.UserData)
	if err != nil {
		return fmt.Errorf("marshal user data: %w", err)
	}
	return r.pool.QueryRow(ctx, query,
		submission.Username,
		userData,
		submission.PredictedFootprint,
		submission.Embedding,
		submission.Month,
		submission.Year,
		submission.CreatedAt,
	).Scan(&submission.ID)
}

// ListByUsername devuelve los envios en orden cronologico (id ascendente).
func (r *PgSubmissionRepository) ListByUsername(ctx context.Context, username string) ([]domain.Submission, error) {
	const query = `
		SELECT id, username, user_data, predicted_footprint, embedding, month, year, created_at
		FROM submissions
		WHERE username = $1
		ORDER BY id ASC
	`
	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []domain.Submission
	for rows.Next() {
		var s domain.Submission
		var userData []byte
		if err := rows.Scan(
			&s.ID,
			&s.Username,
			&userData,
			&s.PredictedFootprint,
			&s.Embedding,
			&s.Month,
			&s.Year,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(userData) > 0 {
			if err := json.Unmarshal(userData, &s.UserData); err != nil {
				return nil, fmt.Errorf("unmarshal user data: %w", err)
			}
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return submissions, nil
}
