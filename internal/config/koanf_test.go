// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaultConfig().Validate() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Recommend.DefaultTopN != 5 || cfg.Recommend.MaxTopN != 20 {
		t.Errorf("Recommend top-n = %d/%d, want 5/20", cfg.Recommend.DefaultTopN, cfg.Recommend.MaxTopN)
	}
	if cfg.Recommend.MinSamples != 3 {
		t.Errorf("Recommend.MinSamples = %d, want 3", cfg.Recommend.MinSamples)
	}
	if cfg.Recommend.PersistAttempts != 3 {
		t.Errorf("Recommend.PersistAttempts = %d, want 3", cfg.Recommend.PersistAttempts)
	}
	if cfg.ModelStore.Backend != "file" {
		t.Errorf("ModelStore.Backend = %q, want file", cfg.ModelStore.Backend)
	}
	if cfg.Database.Driver != "duckdb" {
		t.Errorf("Database.Driver = %q, want duckdb", cfg.Database.Driver)
	}
	if cfg.Events.Transport != "memory" {
		t.Errorf("Events.Transport = %q, want memory", cfg.Events.Transport)
	}
	if cfg.Events.Kafka.Enabled {
		t.Error("Events.Kafka.Enabled should be false by default")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"MODEL_STORE_BACKEND", "model_store.backend"},
		{"REDIS_ADDR", "model_store.redis.addr"},
		{"DATABASE_DSN", "database.dsn"},
		{"KAFKA_BROKERS", "events.kafka.brokers"},
		{"NATS_URL", "events.nats.url"},
		{"RECOMMEND_MAX_TOP_N", "recommend.max_top_n"},
		{"cors_origins", "security.cors_origins"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestEnvMappingsTargetKnownPaths(t *testing.T) {
	t.Parallel()

	k := koanf.New(".")
	if err := loadDefaults(k); err != nil {
		t.Fatalf("loadDefaults() error = %v", err)
	}
	for env, path := range envMappings {
		if !k.Exists(path) {
			t.Errorf("env %s maps to unknown path %q", env, path)
		}
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(customPath, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		t.Setenv(ConfigPathEnvVar, customPath)

		if got := findConfigFile(); got != customPath {
			t.Errorf("findConfigFile() = %q, want %q", got, customPath)
		}
	})

	t.Run("CONFIG_PATH env var with non-existent file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		if got := findConfigFile(); got == "/non/existent/config.yaml" {
			t.Errorf("findConfigFile() = %q, want a fallback", got)
		}
	})
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MODEL_STORE_BACKEND", "badger")
	t.Setenv("MODEL_STORE_PATH", "/tmp/models")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("RECOMMEND_TRAINING_TIMEOUT", "5s")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.ModelStore.Backend != "badger" || cfg.ModelStore.Path != "/tmp/models" {
		t.Errorf("ModelStore = %+v, want badger at /tmp/models", cfg.ModelStore)
	}
	if want := []string{"kafka-1:9092", "kafka-2:9092"}; !reflect.DeepEqual(cfg.Events.Kafka.Brokers, want) {
		t.Errorf("Kafka.Brokers = %v, want %v", cfg.Events.Kafka.Brokers, want)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	if cfg.Recommend.TrainingTimeout != 5*time.Second {
		t.Errorf("Recommend.TrainingTimeout = %v, want 5s", cfg.Recommend.TrainingTimeout)
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	configContent := `
server:
  port: 7000
logging:
  level: warn
model_store:
  backend: redis
  redis:
    addr: redis.internal:6379
database:
  driver: pgx
  dsn: postgres://ride:ride@db/rides
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000 from file", cfg.Server.Port)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error from env", cfg.Logging.Level)
	}
	if cfg.ModelStore.Redis.Addr != "redis.internal:6379" {
		t.Errorf("Redis.Addr = %q, want redis.internal:6379", cfg.ModelStore.Redis.Addr)
	}
	if cfg.ModelStore.Redis.KeyPrefix != "ridewise:model:" {
		t.Errorf("Redis.KeyPrefix = %q, want default retained", cfg.ModelStore.Redis.KeyPrefix)
	}
	if cfg.Database.Driver != "pgx" {
		t.Errorf("Database.Driver = %q, want pgx", cfg.Database.Driver)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"invalid port", map[string]string{"HTTP_PORT": "70000"}},
		{"invalid backend", map[string]string{"MODEL_STORE_BACKEND": "s3"}},
		{"pgx without dsn", map[string]string{"DATABASE_DRIVER": "pgx"}},
		{"kafka without topic", map[string]string{"KAFKA_ENABLED": "true", "KAFKA_TOPIC": ""}},
		{"invalid transport", map[string]string{"EVENTS_TRANSPORT": "carrier-pigeon"}},
		{"invalid log level", map[string]string{"LOG_LEVEL": "verbose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(ConfigPathEnvVar, "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadWithKoanf(); err == nil {
				t.Error("LoadWithKoanf() error = nil, want validation error")
			}
		})
	}
}

func TestServerConfigAddr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "0.0.0.0", Port: 8080}
	if got := s.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8080", got)
	}
}
