// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/ridewise/config.yaml",
	"/etc/ridewise/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Recommend: RecommendConfig{
			DefaultTopN:           5,
			MinTopN:               1,
			MaxTopN:               20,
			MinSamples:            3,
			L2:                    0.01,
			MaxEpochs:             200,
			Tolerance:             1e-7,
			Seed:                  42,
			TrainingTimeout:       30 * time.Second,
			PersistAttempts:       3,
			PersistInitialBackoff: 50 * time.Millisecond,
			PersistMaxBackoff:     time.Second,
		},
		ModelStore: ModelStoreConfig{
			Backend:    "file",
			Path:       "/data/models",
			SyncWrites: true,
			Redis: RedisConfig{
				Addr:        "127.0.0.1:6379",
				DB:          0,
				KeyPrefix:   "ridewise:model:",
				TTL:         0, // Models live until invalidated
				DialTimeout: 5 * time.Second,
			},
			Breaker: BreakerConfig{
				Enabled:          true,
				MaxRequests:      1,
				Interval:         time.Minute,
				Timeout:          30 * time.Second,
				FailureThreshold: 5,
			},
		},
		Database: DatabaseConfig{
			Driver:          "duckdb",
			DSN:             "",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			QueryTimeout:    5 * time.Second,
			SeedSchema:      false,
		},
		Events: EventsConfig{
			Transport:         "memory",
			InvalidationTopic: "recommend.model.invalidate",
			BufferSize:        256,
			PublishBreaker: BreakerConfig{
				Enabled:          true,
				MaxRequests:      1,
				Interval:         time.Minute,
				Timeout:          30 * time.Second,
				FailureThreshold: 5,
			},
			NATS: NATSConfig{
				URL:            "nats://127.0.0.1:4222",
				StreamName:     "RECOMMEND",
				DurableName:    "model-invalidator",
				QueueGroup:     "recommend",
				AckWaitTimeout: 30 * time.Second,
				MaxReconnects:  -1, // Reconnect forever
				ReconnectWait:  2 * time.Second,
			},
			Kafka: KafkaConfig{
				Enabled: false,
				Brokers: []string{"127.0.0.1:9092"},
				Topic:   "reviews.submitted",
				GroupID: "ridewise-recommend",
			},
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := loadDefaults(k); err != nil {
		return nil, err
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// MODEL_STORE_BACKEND -> model_store.backend
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDefaults loads defaultConfig into k.
func loadDefaults(k *koanf.Koanf) error {
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}
	return nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"events.kafka.brokers",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommendation engine mappings
	"recommend_default_top_n":           "recommend.default_top_n",
	"recommend_min_top_n":               "recommend.min_top_n",
	"recommend_max_top_n":               "recommend.max_top_n",
	"recommend_min_samples":             "recommend.min_samples",
	"recommend_l2":                      "recommend.l2",
	"recommend_max_epochs":              "recommend.max_epochs",
	"recommend_tolerance":               "recommend.tolerance",
	"recommend_seed":                    "recommend.seed",
	"recommend_training_timeout":        "recommend.training_timeout",
	"recommend_persist_attempts":        "recommend.persist_attempts",
	"recommend_persist_initial_backoff": "recommend.persist_initial_backoff",
	"recommend_persist_max_backoff":     "recommend.persist_max_backoff",

	// Model store mappings
	"model_store_backend":                   "model_store.backend",
	"model_store_path":                      "model_store.path",
	"model_store_sync_writes":               "model_store.sync_writes",
	"model_store_breaker_enabled":           "model_store.breaker.enabled",
	"model_store_breaker_timeout":           "model_store.breaker.timeout",
	"model_store_breaker_failure_threshold": "model_store.breaker.failure_threshold",
	"redis_addr":                            "model_store.redis.addr",
	"redis_password":                        "model_store.redis.password",
	"redis_db":                              "model_store.redis.db",
	"redis_key_prefix":                      "model_store.redis.key_prefix",
	"redis_ttl":                             "model_store.redis.ttl",
	"redis_dial_timeout":                    "model_store.redis.dial_timeout",

	// Database mappings
	"database_driver":            "database.driver",
	"database_dsn":               "database.dsn",
	"database_max_open_conns":    "database.max_open_conns",
	"database_max_idle_conns":    "database.max_idle_conns",
	"database_conn_max_lifetime": "database.conn_max_lifetime",
	"database_query_timeout":     "database.query_timeout",
	"database_seed_schema":       "database.seed_schema",

	// Event mappings
	"events_transport":          "events.transport",
	"events_invalidation_topic": "events.invalidation_topic",
	"events_buffer_size":        "events.buffer_size",
	"nats_url":                  "events.nats.url",
	"nats_stream":               "events.nats.stream",
	"nats_durable_name":         "events.nats.durable_name",
	"nats_queue_group":          "events.nats.queue_group",
	"nats_ack_wait_timeout":     "events.nats.ack_wait_timeout",
	"nats_max_reconnects":       "events.nats.max_reconnects",
	"nats_reconnect_wait":       "events.nats.reconnect_wait",
	"kafka_enabled":             "events.kafka.enabled",
	"kafka_brokers":             "events.kafka.brokers",
	"kafka_topic":               "events.kafka.topic",
	"kafka_group_id":            "events.kafka.group_id",

	// Security mappings
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - MODEL_STORE_BACKEND -> model_store.backend
//   - REDIS_ADDR -> model_store.redis.addr
//   - KAFKA_BROKERS -> events.kafka.brokers
//
// Unmapped keys return an empty string and are skipped so unrelated
// environment variables do not pollute the config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
