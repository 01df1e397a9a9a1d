// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/ridewise/internal/recommend/algorithms"
)

// MinTrainingSamples is the smallest number of reviewed rides a model is fitted on.
const MinTrainingSamples = 3

// Config holds engine configuration.
type Config struct {
	// Limits bounds the number of drivers returned.
	Limits LimitsConfig `json:"limits"`

	// Training configures model fitting.
	Training TrainingConfig `json:"training"`

	// Persistence configures model save retries.
	Persistence PersistenceConfig `json:"persistence"`
}

// LimitsConfig bounds recommendation list sizes.
type LimitsConfig struct {
	// DefaultTopN is used when the caller does not pass a size.
	// Default: 5.
	DefaultTopN int `json:"default_top_n"`

	// MinTopN is the lower clamp for requested sizes.
	// Default: 1.
	MinTopN int `json:"min_top_n"`

	// MaxTopN is the upper clamp for requested sizes.
	// Default: 20.
	MaxTopN int `json:"max_top_n"`
}

// TrainingConfig configures per-rider model fitting.
type TrainingConfig struct {
	// MinSamples is the number of reviewed, completed rides required to train.
	// Default: 3.
	MinSamples int `json:"min_samples"`

	// L2 is the ridge penalty.
	// Default: 0.01.
	L2 float64 `json:"l2"`

	// MaxEpochs bounds SDCA passes.
	// Default: 200.
	MaxEpochs int `json:"max_epochs"`

	// Tolerance is the duality gap at which fitting stops.
	// Default: 1e-7.
	Tolerance float64 `json:"tolerance"`

	// Seed fixes the SDCA visiting order.
	// Default: 42.
	Seed int64 `json:"seed"`

	// Timeout bounds a single fit.
	// Default: 30s.
	Timeout time.Duration `json:"timeout"`
}

// PersistenceConfig configures model save retries.
type PersistenceConfig struct {
	// MaxAttempts is the total number of save attempts.
	// Default: 3.
	MaxAttempts int `json:"max_attempts"`

	// InitialBackoff is the wait before the first retry.
	// Default: 50ms.
	InitialBackoff time.Duration `json:"initial_backoff"`

	// MaxBackoff caps the wait between retries.
	// Default: 1s.
	MaxBackoff time.Duration `json:"max_backoff"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	sdca := algorithms.DefaultSDCAConfig()
	return &Config{
		Limits: LimitsConfig{
			DefaultTopN: 5,
			MinTopN:     1,
			MaxTopN:     20,
		},
		Training: TrainingConfig{
			MinSamples: MinTrainingSamples,
			L2:         sdca.L2,
			MaxEpochs:  sdca.MaxEpochs,
			Tolerance:  sdca.Tolerance,
			Seed:       sdca.Seed,
			Timeout:    30 * time.Second,
		},
		Persistence: PersistenceConfig{
			MaxAttempts:    3,
			InitialBackoff: 50 * time.Millisecond,
			MaxBackoff:     time.Second,
		},
	}
}

// Validate checks configuration values.
func (c *Config) Validate() error {
	if c.Limits.MinTopN < 1 {
		return fmt.Errorf("limits.min_top_n must be at least 1, got %d", c.Limits.MinTopN)
	}
	if c.Limits.MaxTopN < c.Limits.MinTopN {
		return fmt.Errorf("limits.max_top_n (%d) must be >= limits.min_top_n (%d)", c.Limits.MaxTopN, c.Limits.MinTopN)
	}
	if c.Limits.DefaultTopN < c.Limits.MinTopN || c.Limits.DefaultTopN > c.Limits.MaxTopN {
		return fmt.Errorf("limits.default_top_n must be within [%d, %d], got %d",
			c.Limits.MinTopN, c.Limits.MaxTopN, c.Limits.DefaultTopN)
	}

	if c.Training.MinSamples < 1 {
		return fmt.Errorf("training.min_samples must be at least 1, got %d", c.Training.MinSamples)
	}
	if err := c.Training.SDCA().Validate(); err != nil {
		return fmt.Errorf("training: %w", err)
	}
	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}

	if c.Persistence.MaxAttempts < 1 {
		return fmt.Errorf("persistence.max_attempts must be at least 1, got %d", c.Persistence.MaxAttempts)
	}
	if c.Persistence.InitialBackoff < 0 || c.Persistence.MaxBackoff < 0 {
		return fmt.Errorf("persistence backoff durations must be non-negative")
	}
	if c.Persistence.MaxBackoff < c.Persistence.InitialBackoff {
		return fmt.Errorf("persistence.max_backoff (%v) must be >= persistence.initial_backoff (%v)",
			c.Persistence.MaxBackoff, c.Persistence.InitialBackoff)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// SDCA converts the training settings to an algorithms.SDCAConfig.
func (t TrainingConfig) SDCA() algorithms.SDCAConfig {
	return algorithms.SDCAConfig{
		L2:        t.L2,
		MaxEpochs: t.MaxEpochs,
		Tolerance: t.Tolerance,
		Seed:      t.Seed,
	}
}

// trainingBudget bounds one shared training run: the fit timeout plus the
// longest the save retries can wait.
func (c *Config) trainingBudget() time.Duration {
	return c.Training.Timeout + time.Duration(c.Persistence.MaxAttempts)*c.Persistence.MaxBackoff
}
