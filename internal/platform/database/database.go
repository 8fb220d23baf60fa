// Package database manages the PostgreSQL pool that backs the dive log when
// the postgres backend is selected.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p-n-ai/deepblue/internal/platform/config"
)

const (
	applicationName = "deepblue"
	pingTimeout     = 3 * time.Second
)

// DB wraps a pgx connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// PoolConfig parses cfg.URL and applies pool sizing. MaxConns is at least 1
// and MinConns never exceeds it.
func PoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	if cfg.URL == "" {
		return nil, errors.New("database URL is empty")
	}
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}

	maxConns := max(cfg.MaxConns, 1)
	minConns := min(max(cfg.MinConns, 0), maxConns)
	pc.MaxConns = int32(maxConns)
	pc.MinConns = int32(minConns)
	pc.MaxConnLifetime = 30 * time.Minute
	pc.MaxConnIdleTime = 5 * time.Minute

	if pc.ConnConfig.RuntimeParams["application_name"] == "" {
		pc.ConnConfig.RuntimeParams["application_name"] = applicationName
	}
	return pc, nil
}

// Open creates the pool and verifies it can reach the server.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	pc, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	db := &DB{Pool: pool}
	if err := db.HealthCheck(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	slog.Info("database connected",
		"host", pc.ConnConfig.Host,
		"database", pc.ConnConfig.Database,
		"max_conns", pc.MaxConns,
	)
	return db, nil
}

// Close shuts down the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// HealthCheck pings the server, giving up after a few seconds.
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	return nil
}
