// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

//go:build integration

package database

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/ridewise/internal/config"
	"github.com/tomtom215/ridewise/internal/recommend"
	"github.com/tomtom215/ridewise/internal/testinfra"
)

// setupPostgresDB starts a Postgres container and opens it through pgx.
func setupPostgresDB(t *testing.T) *DB {
	t.Helper()
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	pg, err := testinfra.NewPostgresContainer(ctx)
	if err != nil {
		t.Fatalf("NewPostgresContainer() error = %v", err)
	}
	t.Cleanup(func() { testinfra.CleanupContainer(t, context.Background(), pg) })

	db, err := Open(&config.DatabaseConfig{
		Driver:       "pgx",
		DSN:          pg.DSN,
		MaxOpenConns: 4,
		QueryTimeout: 10 * time.Second,
		SeedSchema:   true,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPostgres_RideHistoryAndEligibility(t *testing.T) {
	db := setupPostgresDB(t)
	ctx := context.Background()

	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("second EnsureSchema() error = %v", err)
	}

	insertDriver(t, db, 10, "active", 4.8, 250)
	insertVehicle(t, db, 1, 10, true)
	insertDriver(t, db, 11, "active", nil, 0)
	insertVehicle(t, db, 2, 11, true)
	insertDriver(t, db, 12, "active", 4.1, 40)
	insertVehicle(t, db, 3, 12, true)

	completed := baseTime.Add(25 * time.Minute)
	insertRide(t, db, 1, 7, 10, "completed", 14.0, baseTime, completed)
	insertRide(t, db, 2, 7, 11, "completed", 8.5, baseTime.Add(time.Hour), completed.Add(time.Hour))
	insertRide(t, db, 3, 9, 12, "requested", nil, baseTime.Add(2*time.Hour), nil)
	insertReview(t, db, 100, 1, 7, 10, 4.5, completed.Add(time.Minute))

	t.Run("history", func(t *testing.T) {
		rides, err := db.GetRideHistory(ctx, 7)
		if err != nil {
			t.Fatalf("GetRideHistory() error = %v", err)
		}
		if len(rides) != 2 {
			t.Fatalf("len(rides) = %d, want 2", len(rides))
		}
		if rides[0].RideID != 1 || len(rides[0].Reviews) != 1 || rides[0].Reviews[0].Rating != 4.5 {
			t.Errorf("rides[0] = %+v, want ride 1 with a 4.5 review", rides[0])
		}
		if rides[0].CompletedAt == nil || !rides[0].CompletedAt.Equal(completed) {
			t.Errorf("rides[0].CompletedAt = %v, want %v", rides[0].CompletedAt, completed)
		}
		if rides[1].Driver == nil || rides[1].Driver.AverageRating != nil {
			t.Errorf("rides[1].Driver = %+v, want unrated stats", rides[1].Driver)
		}
	})

	t.Run("eligible_drivers", func(t *testing.T) {
		candidates, err := db.GetEligibleDrivers(ctx)
		if err != nil {
			t.Fatalf("GetEligibleDrivers() error = %v", err)
		}
		if len(candidates) != 2 || candidates[0].DriverID != 10 || candidates[1].DriverID != 11 {
			t.Fatalf("candidates = %+v, want drivers 10 and 11", candidates)
		}
		if candidates[0].Status != recommend.DriverStatusActive {
			t.Errorf("candidates[0].Status = %s, want active", candidates[0].Status)
		}
	})
}
