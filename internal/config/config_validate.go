// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package config

import (
	"fmt"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateModelStore(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateEvents(); err != nil {
		return err
	}

	return c.validateSecurity()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateRecommend validates the engine bounds. Fine-grained checks are
// repeated by the engine itself when it is constructed.
func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.MinTopN < 1 || r.MaxTopN < r.MinTopN {
		return fmt.Errorf("RECOMMEND_MIN_TOP_N must be >= 1 and <= RECOMMEND_MAX_TOP_N")
	}
	if r.DefaultTopN < r.MinTopN || r.DefaultTopN > r.MaxTopN {
		return fmt.Errorf("RECOMMEND_DEFAULT_TOP_N must be between %d and %d", r.MinTopN, r.MaxTopN)
	}
	if r.MinSamples < 1 {
		return fmt.Errorf("RECOMMEND_MIN_SAMPLES must be at least 1")
	}
	if r.L2 <= 0 {
		return fmt.Errorf("RECOMMEND_L2 must be positive")
	}
	if r.MaxEpochs < 1 {
		return fmt.Errorf("RECOMMEND_MAX_EPOCHS must be at least 1")
	}
	if r.PersistAttempts < 1 || r.PersistAttempts > 10 {
		return fmt.Errorf("RECOMMEND_PERSIST_ATTEMPTS must be between 1 and 10")
	}
	return nil
}

// validModelStoreBackends defines the allowed model store backends
var validModelStoreBackends = map[string]bool{
	"file":   true,
	"badger": true,
	"redis":  true,
}

// validateModelStore validates model store configuration
func (c *Config) validateModelStore() error {
	s := c.ModelStore
	if !validModelStoreBackends[s.Backend] {
		return fmt.Errorf("MODEL_STORE_BACKEND must be one of: file, badger, redis")
	}
	if (s.Backend == "file" || s.Backend == "badger") && s.Path == "" {
		return fmt.Errorf("MODEL_STORE_PATH is required when MODEL_STORE_BACKEND=%s", s.Backend)
	}
	if s.Backend == "redis" && s.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when MODEL_STORE_BACKEND=redis")
	}
	return validateBreaker("model_store.breaker", s.Breaker)
}

func validateBreaker(name string, b BreakerConfig) error {
	if !b.Enabled {
		return nil
	}
	if b.FailureThreshold == 0 {
		return fmt.Errorf("%s.failure_threshold must be at least 1", name)
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("%s.timeout must be positive", name)
	}
	return nil
}

// validDatabaseDrivers defines the allowed database/sql drivers
var validDatabaseDrivers = map[string]bool{
	"pgx":    true,
	"duckdb": true,
}

// validateDatabase validates ride database configuration
func (c *Config) validateDatabase() error {
	if !validDatabaseDrivers[c.Database.Driver] {
		return fmt.Errorf("DATABASE_DRIVER must be one of: pgx, duckdb")
	}
	if c.Database.Driver == "pgx" && c.Database.DSN == "" {
		return fmt.Errorf("DATABASE_DSN is required when DATABASE_DRIVER=pgx")
	}
	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("DATABASE_QUERY_TIMEOUT must be positive")
	}
	return nil
}

// validateEvents validates event bus configuration
func (c *Config) validateEvents() error {
	e := c.Events
	switch e.Transport {
	case "memory":
	case "nats":
		if e.NATS.URL == "" {
			return fmt.Errorf("NATS_URL is required when EVENTS_TRANSPORT=nats")
		}
	default:
		return fmt.Errorf("EVENTS_TRANSPORT must be one of: memory, nats")
	}
	if e.InvalidationTopic == "" {
		return fmt.Errorf("EVENTS_INVALIDATION_TOPIC must not be empty")
	}
	if e.Kafka.Enabled {
		if len(e.Kafka.Brokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED=true")
		}
		if e.Kafka.Topic == "" || e.Kafka.GroupID == "" {
			return fmt.Errorf("KAFKA_TOPIC and KAFKA_GROUP_ID are required when KAFKA_ENABLED=true")
		}
	}
	return validateBreaker("events.publish_breaker", e.PublishBreaker)
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// ShouldWarnAboutCORS returns true if CORS allows any origin in production.
func (c *Config) ShouldWarnAboutCORS() bool {
	if !c.IsProduction() {
		return false
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}
