// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

/*
Package database reads the ride subsystem's tables on behalf of the
recommendation engine.

DB implements recommend.RideHistoryProvider and recommend.CandidateSource over
database/sql. Two drivers are registered:

  - pgx: PostgreSQL through github.com/jackc/pgx/v5/stdlib (production)
  - duckdb: embedded DuckDB through github.com/duckdb/duckdb-go/v2 (local runs and tests)

Queries use $N placeholders, which both drivers accept.

# Tables

The tables are owned by the ride subsystem. Schema holds an equivalent DDL used
to bootstrap local databases and tests:

  - drivers: id, status, average_rating, total_rides
  - vehicles: id, driver_id, is_active
  - rides: id, rider_id, driver_id, status, fares, distance, duration, timestamps
  - reviews: id, ride_id, rider_id, driver_id, rating, created_at

# Usage

	db, err := database.Open(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	history, err := db.GetRideHistory(ctx, riderID)
	candidates, err := db.GetEligibleDrivers(ctx)
*/
package database
