// Package db provides PostgreSQL access for articles and quality reports.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrArticleNotFound is returned when an update targets a missing article
var ErrArticleNotFound = errors.New("article not found")

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping checks the connection
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// schemaSQL creates the tables the monitor reads and writes
const schemaSQL = `
CREATE TABLE IF NOT EXISTS articles (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL DEFAULT '',
	slug           TEXT NOT NULL DEFAULT '',
	content        TEXT NOT NULL DEFAULT '',
	quality_score  INTEGER,
	quality_issues JSONB,
	updated_at     TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS quality_reports (
	id          UUID PRIMARY KEY,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	total       INTEGER NOT NULL,
	average     DOUBLE PRECISION NOT NULL,
	payload     JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS quality_reports_finished_at_idx ON quality_reports (finished_at DESC);
`

// EnsureSchema creates the tables if they do not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
