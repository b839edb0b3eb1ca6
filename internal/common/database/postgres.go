// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"campaign-enricher/internal/common/config"
)

// PostgresClient wraps the SQL database connection holding ad benchmarks.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens a lib/pq pool. The connection is verified lazily; call
// Ping to check it eagerly.
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

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// BenchmarkSchema creates the table the AdPlatform producer reads.
const BenchmarkSchema = `CREATE TABLE IF NOT EXISTS ad_benchmarks (
	industry            TEXT NOT NULL,
	platform            TEXT NOT NULL,
	avg_cpc             DOUBLE PRECISION NOT NULL,
	avg_ctr             DOUBLE PRECISION NOT NULL,
	seasonal_multiplier DOUBLE PRECISION,
	PRIMARY KEY (industry, platform)
)`

// EnsureBenchmarkSchema creates ad_benchmarks when it does not exist.
func (c *PostgresClient) EnsureBenchmarkSchema(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, BenchmarkSchema); err != nil {
		return fmt.Errorf("create ad_benchmarks: %w", err)
	}
	return nil
}
