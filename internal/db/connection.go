// Package db stores embedded chunks in PostgreSQL with pgvector.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	applicationName = "pdfchat"
	// One session writes a generation at a time; searches are sequential.
	maxConns    = 4
	pingTimeout = 5 * time.Second
)

// DB holds the pool that backs the pgvector index
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and pings it
func New(ctx context.Context, connString string) (*DB, error) {
	cfg, err := poolConfig(connString)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database at %s: %w", cfg.ConnConfig.Host, err)
	}

	return &DB{pool: pool}, nil
}

// poolConfig parses connString and applies pdfchat's pool settings.
// Settings given in the connection string itself win over the defaults here.
func poolConfig(connString string) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if cfg.MaxConns > maxConns {
		cfg.MaxConns = maxConns
	}
	cfg.MaxConnIdleTime = 5 * time.Minute
	if _, ok := cfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		cfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}
	return cfg, nil
}

// Close closes the pool
func (db *DB) Close() {
	db.pool.Close()
}
