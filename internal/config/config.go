// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package config

import "time"

// Config holds all application configuration loaded from defaults, an optional
// config file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Example - Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.ModelStore.Backend, cfg.Database.DSN, etc. are now populated
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from multiple goroutines.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	ModelStore ModelStoreConfig `koanf:"model_store"`
	Database   DatabaseConfig   `koanf:"database"`
	Events     EventsConfig     `koanf:"events"`
	Security   SecurityConfig   `koanf:"security"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`          // Per-request handler timeout
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"` // Graceful shutdown budget
	Environment     string        `koanf:"environment"`      // "development", "staging", "production" (default: "development")
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// RecommendConfig holds recommendation engine settings.
//
// Environment Variables:
//   - RECOMMEND_DEFAULT_TOP_N: Drivers returned when top_n is omitted (default: 5)
//   - RECOMMEND_MAX_TOP_N: Upper clamp for top_n (default: 20)
//   - RECOMMEND_MIN_SAMPLES: Reviewed rides required to train (default: 3)
//   - RECOMMEND_L2: Ridge penalty (default: 0.01)
//   - RECOMMEND_MAX_EPOCHS: SDCA pass limit (default: 200)
//   - RECOMMEND_SEED: SDCA visiting-order seed (default: 42)
//   - RECOMMEND_TRAINING_TIMEOUT: Bound on one fit (default: 30s)
//   - RECOMMEND_PERSIST_ATTEMPTS: Model save attempts (default: 3)
type RecommendConfig struct {
	DefaultTopN int `koanf:"default_top_n"`
	MinTopN     int `koanf:"min_top_n"`
	MaxTopN     int `koanf:"max_top_n"`

	MinSamples      int           `koanf:"min_samples"`
	L2              float64       `koanf:"l2"`
	MaxEpochs       int           `koanf:"max_epochs"`
	Tolerance       float64       `koanf:"tolerance"`
	Seed            int64         `koanf:"seed"`
	TrainingTimeout time.Duration `koanf:"training_timeout"`

	PersistAttempts       int           `koanf:"persist_attempts"`
	PersistInitialBackoff time.Duration `koanf:"persist_initial_backoff"`
	PersistMaxBackoff     time.Duration `koanf:"persist_max_backoff"`
}

// ModelStoreConfig selects and configures the per-rider model store.
//
// Environment Variables:
//   - MODEL_STORE_BACKEND: file, badger or redis (default: file)
//   - MODEL_STORE_PATH: Directory for file and badger backends (default: /data/models)
//   - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_KEY_PREFIX, REDIS_TTL
//   - MODEL_STORE_BREAKER_ENABLED: Wrap the backend in a circuit breaker (default: true)
type ModelStoreConfig struct {
	Backend    string        `koanf:"backend"`
	Path       string        `koanf:"path"`
	SyncWrites bool          `koanf:"sync_writes"` // Badger only
	Redis      RedisConfig   `koanf:"redis"`
	Breaker    BreakerConfig `koanf:"breaker"`
}

// RedisConfig holds Redis connection settings for the redis model store backend.
type RedisConfig struct {
	Addr        string        `koanf:"addr"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db"`
	KeyPrefix   string        `koanf:"key_prefix"`
	TTL         time.Duration `koanf:"ttl"` // 0 = no expiry
	DialTimeout time.Duration `koanf:"dial_timeout"`
}

// BreakerConfig holds circuit breaker settings.
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	MaxRequests      uint32        `koanf:"max_requests"`      // Requests allowed while half-open
	Interval         time.Duration `koanf:"interval"`          // Closed-state counter reset period
	Timeout          time.Duration `koanf:"timeout"`           // Open-state duration before half-open
	FailureThreshold uint32        `koanf:"failure_threshold"` // Consecutive failures that trip the breaker
}

// DatabaseConfig holds ride database settings.
//
// Environment Variables:
//   - DATABASE_DRIVER: pgx or duckdb (default: duckdb)
//   - DATABASE_DSN: Connection string; empty duckdb DSN opens an in-memory database
//   - DATABASE_SEED_SCHEMA: Create tables on startup (default: false)
type DatabaseConfig struct {
	Driver          string        `koanf:"driver"`
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	QueryTimeout    time.Duration `koanf:"query_timeout"`
	SeedSchema      bool          `koanf:"seed_schema"`
}

// EventsConfig holds event bus settings.
//
// Environment Variables:
//   - EVENTS_TRANSPORT: memory or nats (default: memory)
//   - EVENTS_INVALIDATION_TOPIC: Topic for model invalidation events
//   - NATS_URL, NATS_STREAM, NATS_DURABLE_NAME, NATS_QUEUE_GROUP
//   - KAFKA_ENABLED, KAFKA_BROKERS, KAFKA_TOPIC, KAFKA_GROUP_ID
type EventsConfig struct {
	Transport         string        `koanf:"transport"`
	InvalidationTopic string        `koanf:"invalidation_topic"`
	BufferSize        int64         `koanf:"buffer_size"` // memory transport output buffer
	PublishBreaker    BreakerConfig `koanf:"publish_breaker"`
	NATS              NATSConfig    `koanf:"nats"`
	Kafka             KafkaConfig   `koanf:"kafka"`
}

// NATSConfig holds NATS JetStream settings for the nats event transport.
type NATSConfig struct {
	URL            string        `koanf:"url"`
	StreamName     string        `koanf:"stream"`
	DurableName    string        `koanf:"durable_name"`
	QueueGroup     string        `koanf:"queue_group"`
	AckWaitTimeout time.Duration `koanf:"ack_wait_timeout"`
	MaxReconnects  int           `koanf:"max_reconnects"`
	ReconnectWait  time.Duration `koanf:"reconnect_wait"`
}

// KafkaConfig holds settings for the optional review-submitted Kafka feed.
type KafkaConfig struct {
	Enabled bool     `koanf:"enabled"`
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
	GroupID string   `koanf:"group_id"`
}

// SecurityConfig holds HTTP hardening settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// Load reads configuration from, in increasing priority:
//  1. Built-in defaults
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH env var)
//  3. Environment variables
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}
