// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

/*
Package config provides centralized configuration management for Ridewise.

Configuration is layered with Koanf v2: built-in defaults, then an optional YAML
file, then environment variables. The file is taken from CONFIG_PATH or the first
of DefaultConfigPaths that exists.

# Configuration Structure

  - ServerConfig: HTTP listen address, handler timeout, environment
  - LoggingConfig: zerolog level, format and caller
  - RecommendConfig: top-N bounds, SDCA training settings, save retries
  - ModelStoreConfig: file, badger or redis backend plus circuit breaker
  - DatabaseConfig: pgx or duckdb ride database
  - EventsConfig: memory or nats event bus and the optional Kafka review feed
  - SecurityConfig: CORS origins and rate limiting

# Environment Variables

Only mapped variables are read. Common ones:

  - HTTP_PORT, HTTP_HOST, ENVIRONMENT
  - LOG_LEVEL, LOG_FORMAT
  - MODEL_STORE_BACKEND, MODEL_STORE_PATH, REDIS_ADDR
  - DATABASE_DRIVER, DATABASE_DSN
  - EVENTS_TRANSPORT, NATS_URL, KAFKA_ENABLED, KAFKA_BROKERS (comma-separated)
  - CORS_ORIGINS (comma-separated), RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW

# Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	srv := &http.Server{Addr: cfg.Server.Addr()}
*/
package config
