// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

// Package testinfra starts real backing services in Docker for integration tests.
//
// Everything here is behind the integration build tag:
//
//	go test -tags=integration ./...
//
// # Postgres
//
// PostgresContainer runs the ride database the production service reads through pgx:
//
//	pg, err := testinfra.NewPostgresContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, pg)
//
//	db, err := database.Open(&config.DatabaseConfig{Driver: "pgx", DSN: pg.DSN, SeedSchema: true})
//
// # Redis
//
// RedisContainer backs the shared model store:
//
//	rc, err := testinfra.NewRedisContainer(ctx)
//	kv, err := storage.NewRedisKV(ctx, storage.RedisConfig{Addr: rc.Addr})
//
// Tests call SkipIfNoDocker first so machines without Docker skip instead of fail.
// The first run pulls images; later runs use the local cache.
package testinfra
