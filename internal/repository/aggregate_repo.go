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

type AggregateRepository interface {
	// Find devuelve nil sin error cuando el usuario no tiene perfil todavia.
	Find(ctx context.Context, username string) (*domain.AggregateProfile, error)
	ListOthers(ctx context.Context, username string) ([]domain.AggregateProfile, error)
	Upsert(ctx context.Context, profile *domain.AggregateProfile) error
}

type PgAggregateRepository struct {
	pool *pgxpool.Pool
}

func NewPgAggregateRepository(pool *pgxpool.Pool) *PgAggregateRepository {
	return &PgAggregateRepository{pool: pool}
}

func (r *PgAggregateRepository) Find(ctx context.Context, username string) (*domain.AggregateProfile, error) {
	const query = `
		SELECT username, numerical, categorical, updated_at
		FROM aggregate_profiles
		WHERE username = $1
	`
	profile, err := scanAggregate(r.pool.QueryRow(ctx, query, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *PgAggregateRepository) ListOthers(ctx context.Context, username string) ([]domain.AggregateProfile, error) {
	const query = `
		SELECT username, numerical, categorical, updated_at
		FROM aggregate_profiles
		WHERE username <> $1
		ORDER BY username ASC
	`
	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.AggregateProfile
	for rows.Next() {
		profile, err := scanAggregate(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *PgAggregateRepository) Upsert(ctx context.Context, profile *domain.AggregateProfile) error {
	const query = `
		INSERT INTO aggregate_profiles (username, numerical, categorical, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO UPDATE SET
			numerical = EXCLUDED.numerical,
			categorical = EXCLUDED.categorical,
			updated_at = EXCLUDED.updated_at
	`
	numerical, err := json.Marshal(profile.Numerical)
	if err != nil {
		return fmt.Errorf("marshal numerical: %w", err)
	}
	categorical, err := json.Marshal(profile.Categorical)
	if err != nil {
		return fmt.Errorf("marshal categorical: %w", err)
	}
	_, err = r.pool.Exec(ctx, query, profile.Username, numerical, categorical, profile.UpdatedAt)
	return err
}

type pgxRow interface {
	Scan(...interface{}) error
}

func scanAggregate(row pgxRow) (*domain.AggregateProfile, error) {
	var profile domain.AggregateProfile
	var numerical, categorical []byte
	if err := row.Scan(&profile.Username, &numerical, &categorical, &profile.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(numerical, &profile.Numerical); err != nil {
		return nil, fmt.Errorf("unmarshal numerical: %w", err)
	}
	if err := json.Unmarshal(categorical, &profile.Categorical); err != nil {
		return nil, fmt.Errorf("unmarshal categorical: %w", err)
	}
	return &profile, nil
}
