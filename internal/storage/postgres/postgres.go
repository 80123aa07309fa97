// Package postgres stores balance reports in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/arena/internal/config"
)

// ErrSchemaMissing means the database is reachable but cmd/migrate has not
// created the report tables yet.
var ErrSchemaMissing = errors.New("balance_reports table missing; run cmd/migrate")

// Pool is the connection pool behind ReportRepository.
type Pool struct {
	pool          *pgxpool.Pool
	healthTimeout time.Duration
}

// NewPool connects to the report database described by cfg.
//
// Precondition: cfg must pass config validation for the postgres driver.
// Postcondition: Returns a pinged Pool or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	timeout := cfg.HealthTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Pool{pool: pool, healthTimeout: timeout}, nil
}

// Health verifies within the configured timeout that the database answers
// and that the balance_reports table exists.
//
// Postcondition: Returns nil, ErrSchemaMissing, or a connection error.
func (p *Pool) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.healthTimeout)
	defer cancel()

	var present bool
	err := p.pool.QueryRow(ctx, `SELECT to_regclass('balance_reports') IS NOT NULL`).Scan(&present)
	if err != nil {
		return fmt.Errorf("checking report schema: %w", err)
	}
	if !present {
		return ErrSchemaMissing
	}
	return nil
}

// Reports returns a repository backed by this pool.
func (p *Pool) Reports() *ReportRepository {
	return NewReportRepository(p.pool)
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
