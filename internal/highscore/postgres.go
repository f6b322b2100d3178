package highscore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tomz197/starstrike/internal/match"
)

const schema = `
CREATE TABLE IF NOT EXISTS high_scores (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    score INTEGER NOT NULL,
    level INTEGER NOT NULL,
    difficulty TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_high_scores_rank ON high_scores(score DESC, created_at ASC);
`

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to PostgreSQL and initializes the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Submit inserts a validated record.
func (s *PostgresStore) Submit(ctx context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO high_scores (id, name, score, level, difficulty, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.Name, r.Score, r.Level, string(r.Difficulty), r.CreatedAt)
	return err
}

// Top returns the best limit records.
func (s *PostgresStore) Top(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, score, level, difficulty, created_at
		 FROM high_scores ORDER BY score DESC, created_at ASC LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Get looks up a record by ID.
func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, score, level, difficulty, created_at
		 FROM high_scores WHERE id = $1`, id)

	r, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return r, err
}

// Close releases database resources.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		r          Record
		difficulty string
	)
	if err := row.Scan(&r.ID, &r.Name, &r.Score, &r.Level, &difficulty, &r.CreatedAt); err != nil {
		return Record{}, err
	}
	r.Difficulty = match.Difficulty(difficulty)
	return r, nil
}
