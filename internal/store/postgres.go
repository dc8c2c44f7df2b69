package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS parse_results (
	id         UUID PRIMARY KEY,
	filename   TEXT NOT NULL,
	hash       TEXT NOT NULL,
	result     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_parse_results_created_at ON parse_results (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_parse_results_hash ON parse_results (hash);
`

// PostgresStore wraps a PostgreSQL connection pool
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres establishes a connection pool and migrates the schema.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the parse_results table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to migrate parse_results: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// SaveParse inserts the record, replacing one with the same id.
func (s *PostgresStore) SaveParse(ctx context.Context, rec *Record) error {
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal parse result: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO parse_results (id, filename, hash, result, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET filename = $2, hash = $3, result = $4, created_at = $5`,
		rec.ID, rec.Filename, rec.Hash, resultJSON, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save parse result: %w", err)
	}
	return nil
}

// GetParse retrieves a record by id
func (s *PostgresStore) GetParse(ctx context.Context, id uuid.UUID) (*Record, error) {
	var rec Record
	var resultJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, filename, hash, result, created_at FROM parse_results WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.Filename, &rec.Hash, &resultJSON, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get parse result: %w", err)
	}
	if err := json.Unmarshal(resultJSON, &rec.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal parse result: %w", err)
	}
	return &rec, nil
}

// ListParses returns the most recent records
func (s *PostgresStore) ListParses(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, filename, hash, result, created_at FROM parse_results
		 ORDER BY created_at DESC LIMIT $1`,
		normalizeLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list parse results: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record
		var resultJSON []byte
		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.Hash, &resultJSON, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan parse result: %w", err)
		}
		if err := json.Unmarshal(resultJSON, &rec.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal parse result: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list parse results: %w", err)
	}
	return records, nil
}
