// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tomtom215/ridewise/internal/config"
	"github.com/tomtom215/ridewise/internal/logging"
	"github.com/tomtom215/ridewise/internal/metrics"
)

const defaultQueryTimeout = 5 * time.Second

// DB wraps a database/sql pool over the ride tables.
type DB struct {
	conn         *sql.DB
	driver       string
	queryTimeout time.Duration
}

// Open connects using cfg.Driver and verifies the connection. When cfg.SeedSchema
// is set the ride tables are created if missing.
func Open(cfg *config.DatabaseConfig) (*DB, error) {
	conn, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	db := newDB(conn, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to reach %s database: %w", cfg.Driver, err)
	}

	if cfg.SeedSchema {
		if err := db.EnsureSchema(ctx); err != nil {
			closeQuietly(conn)
			return nil, err
		}
	}

	logging.Info().
		Str("driver", cfg.Driver).
		Int("max_open_conns", cfg.MaxOpenConns).
		Bool("seed_schema", cfg.SeedSchema).
		Msg("Ride database connected")

	return db, nil
}

func newDB(conn *sql.DB, cfg *config.DatabaseConfig) *DB {
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}

	return &DB{conn: conn, driver: cfg.Driver, queryTimeout: timeout}
}

// Driver returns the database/sql driver name.
func (db *DB) Driver() string {
	return db.driver
}

// Conn returns the underlying pool.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping verifies the database answers.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// queryContext bounds a query by the configured timeout.
func (db *DB) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, db.queryTimeout)
}

// observe records a query's latency and outcome.
func observe(operation, table string, start time.Time, err error) {
	metrics.RecordDBQuery(operation, table, time.Since(start), err)
}

// closeQuietly closes a resource in error paths where Close errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
