// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package database

import (
	"context"
	"fmt"
)

// Schema is the ride subsystem DDL. Every statement is valid in both PostgreSQL
// and DuckDB and is safe to re-run.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS drivers (
		id             BIGINT PRIMARY KEY,
		status         VARCHAR NOT NULL,
		average_rating DOUBLE PRECISION,
		total_rides    INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id        BIGINT PRIMARY KEY,
		driver_id BIGINT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS rides (
		id            BIGINT PRIMARY KEY,
		rider_id      BIGINT NOT NULL,
		driver_id     BIGINT NOT NULL,
		status        VARCHAR NOT NULL,
		fare_estimate DOUBLE PRECISION,
		fare_final    DOUBLE PRECISION,
		distance_km   DOUBLE PRECISION,
		duration_min  DOUBLE PRECISION,
		requested_at  TIMESTAMP NOT NULL,
		completed_at  TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id         BIGINT PRIMARY KEY,
		ride_id    BIGINT NOT NULL,
		rider_id   BIGINT NOT NULL,
		driver_id  BIGINT NOT NULL,
		rating     DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rides_rider ON rides (rider_id)`,
	`CREATE INDEX IF NOT EXISTS idx_rides_driver_status ON rides (driver_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_ride ON reviews (ride_id)`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_driver ON vehicles (driver_id)`,
}

// EnsureSchema creates the ride tables and indexes when missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range Schema {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
