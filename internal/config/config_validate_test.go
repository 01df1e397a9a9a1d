// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package config

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }, true},
		{"empty log format allowed", func(c *Config) { c.Logging.Format = "" }, false},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"default top n above max", func(c *Config) { c.Recommend.DefaultTopN = 21 }, true},
		{"min top n zero", func(c *Config) { c.Recommend.MinTopN = 0 }, true},
		{"zero l2", func(c *Config) { c.Recommend.L2 = 0 }, true},
		{"too many persist attempts", func(c *Config) { c.Recommend.PersistAttempts = 11 }, true},
		{"file backend without path", func(c *Config) { c.ModelStore.Path = "" }, true},
		{"redis backend without addr", func(c *Config) {
			c.ModelStore.Backend = "redis"
			c.ModelStore.Redis.Addr = ""
		}, true},
		{"redis backend ignores path", func(c *Config) {
			c.ModelStore.Backend = "redis"
			c.ModelStore.Path = ""
		}, false},
		{"breaker without threshold", func(c *Config) { c.ModelStore.Breaker.FailureThreshold = 0 }, true},
		{"disabled breaker skips checks", func(c *Config) {
			c.ModelStore.Breaker.Enabled = false
			c.ModelStore.Breaker.FailureThreshold = 0
		}, false},
		{"pgx with dsn", func(c *Config) {
			c.Database.Driver = "pgx"
			c.Database.DSN = "postgres://localhost/rides"
		}, false},
		{"nats without url", func(c *Config) {
			c.Events.Transport = "nats"
			c.Events.NATS.URL = ""
		}, true},
		{"empty topic", func(c *Config) { c.Events.InvalidationTopic = "" }, true},
		{"kafka without brokers", func(c *Config) {
			c.Events.Kafka.Enabled = true
			c.Events.Kafka.Brokers = nil
		}, true},
		{"rate limit window too long", func(c *Config) { c.Security.RateLimitWindow = 2 * time.Hour }, true},
		{"rate limit disabled skips checks", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if cfg.ShouldWarnAboutCORS() {
		t.Error("ShouldWarnAboutCORS() = true in development, want false")
	}
	cfg.Server.Environment = "production"
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("ShouldWarnAboutCORS() = false for wildcard in production, want true")
	}
	cfg.Security.CORSOrigins = []string{"https://ridewise.example"}
	if cfg.ShouldWarnAboutCORS() {
		t.Error("ShouldWarnAboutCORS() = true for explicit origins, want false")
	}
}
