package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresKV stores slots in the kv_slots table (see migrations/).
type PostgresKV struct {
	pool *pgxpool.Pool
}

// NewPostgresKV creates a PostgresKV on top of an existing pool.
func NewPostgresKV(pool *pgxpool.Pool) *PostgresKV {
	return &PostgresKV{pool: pool}
}

// Init verifies the kv_slots table is reachable.
func (s *PostgresKV) Init(ctx context.Context) error {
	var one int
	if err := s.pool.QueryRow(ctx, `SELECT 1 FROM kv_slots LIMIT 1`).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil // Table exists but is empty.
		}
		return fmt.Errorf("kv_slots not reachable (run migrations?): %w", err)
	}
	return nil
}

// Get returns the raw JSON value of a slot, or ErrNotFound.
func (s *PostgresKV) Get(ctx context.Context, slot string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM kv_slots WHERE slot = $1`, slot,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set overwrites the slot's whole value.
func (s *PostgresKV) Set(ctx context.Context, slot string, value []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO kv_slots (slot, value, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (slot) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		slot, value,
	)
	return err
}
