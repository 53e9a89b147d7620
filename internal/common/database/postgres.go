// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"

	"leadflow/internal/common/config"
	"leadflow/internal/common/logger"
)

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres creates a new PostgreSQL client
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// ConnectPostgres opens the pool and pings it until it answers or policy
// gives up.
func ConnectPostgres(ctx context.Context, cfg config.PostgresConfig, policy backoff.BackOff, log logger.Logger) (*PostgresClient, error) {
	client, err := NewPostgres(cfg)
	if err != nil {
		return nil, err
	}

	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Ping(pingCtx)
	}
	notify := func(err error, wait time.Duration) {
		log.Warn("Postgres not ready, retrying", map[string]interface{}{
			"host":  cfg.Host,
			"error": err.Error(),
			"wait":  wait.String(),
		})
	}

	if err := backoff.RetryNotify(ping, backoff.WithContext(policy, ctx), notify); err != nil {
		client.Close()
		return nil, fmt.Errorf("postgres unreachable at %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return client, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Exec executes a query that doesn't return rows
func (c *PostgresClient) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return c.DB.ExecContext(ctx, query, args...)
}

// GetDB returns the underlying *sql.DB for compatibility
func (c *PostgresClient) GetDB() *sql.DB {
	return c.DB
}
