package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carbon-trace/internal/domain"
)

type ReductionRepository interface {
	// Find devuelve nil sin error cuando el usuario no tiene registro.
	Find(ctx context.Context, username string) (*domain.ReductionRecord, error)
	Upsert(ctx context.Context, record *domain.ReductionRecord) error
}

type PgReductionRepository struct {
	pool *pgxpool.Pool
}

func NewPgReductionRepository(pool *pgxpool.Pool) *PgReductionRepository {
	return &PgReductionRepository{pool: pool}
}

func (r *PgReductionRepository) Find(ctx context.Context, username string) (*domain.ReductionRecord, error) {
	const query = `
		SELECT username, reduced_amount, reducing_attributes, updated_at
		FROM reduction_records
		WHERE username = $1
	`
	var record domain.ReductionRecord
	var attributes []byte
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&record.Username,
		&record.ReducedAmount,
		&attributes,
		&record.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(attributes, &record.ReducingAttributes); err != nil {
		return nil, fmt.Errorf("unmarshal reducing attributes: %w", err)
	}
	return &record, nil
}

func (r *PgReductionRepository) Upsert(ctx context.Context, record *domain.ReductionRecord) error {
	const query = `
		INSERT INTO reduction_records (username, reduced_amount, reducing_attributes, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO UPDATE SET
			reduced_amount = EXCLUDED.reduced_amount,
			reducing_attributes = EXCLUDED.reducing_attributes,
			updated_at = EXCLUDED.updated_at
	`
	attributes, err := json.Marshal(record.ReducingAttributes)
	if err != nil {
		return fmt.Errorf("marshal reducing attributes: %w", err)
	}
	if record.ReducingAttributes == nil {
		attributes = []byte("[]")
	}
	_, err = r.pool.Exec(ctx, query, record.Username, record.ReducedAmount, attributes, record.UpdatedAt)
	return err
}
