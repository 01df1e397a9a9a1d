// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

/*
Package main is the entry point for the Ridewise server.

Ridewise recommends drivers to riders. Each rider with enough reviewed rides
gets a personal ridge regression model trained on their history; riders
without one get a cold-start ranking built from driver ratings and
completion counts.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("ridewise")
	├── DataSupervisor ("data-layer")
	│   └── Store GC (badger backend only)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Invalidation consumer
	│   └── Kafka review feed (optional)
	└── APISupervisor ("api-layer")
	    └── HTTP server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Ride database: PostgreSQL (pgx) or DuckDB
 4. Model store: file, badger or redis, optionally behind a circuit breaker
 5. Recommendation engine
 6. Event bus: Watermill over gochannel or NATS JetStream
 7. HTTP server: Chi router with rate limiting, CORS and metrics
 8. Supervisor tree

# Configuration

Configuration is loaded via Koanf v2 (environment variables > config file > defaults):

	PORT=8080
	LOG_LEVEL=info
	LOG_FORMAT=json

	DATABASE_DRIVER=pgx
	DATABASE_DSN=postgres://ridewise:secret@db:5432/rides

	MODEL_STORE_BACKEND=badger
	MODEL_STORE_PATH=/data/models

	EVENTS_TRANSPORT=nats
	NATS_URL=nats://nats:4222

	KAFKA_ENABLED=true
	KAFKA_BROKERS=kafka:9092

# Build Tags

	go build ./cmd/server                # in-memory event bus only
	go build -tags nats ./cmd/server     # enable NATS JetStream transport

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server stops accepting
connections, drains in-flight requests and pending review publishes, then the
event bus, model store and database are closed.
*/
package main
