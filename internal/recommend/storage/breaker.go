// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package storage

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/ridewise/internal/metrics"
)

// BreakerConfig holds circuit breaker settings for a KV backend.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open.
	// Default: 1.
	MaxRequests uint32

	// Interval clears failure counts while closed. Zero never clears.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	// Default: 30s.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that opens the breaker.
	// Default: 5.
	FailureThreshold uint32
}

// BreakerKV guards a KV with a circuit breaker. A missing key counts as success.
type BreakerKV struct {
	inner KV
	cb    *gobreaker.CircuitBreaker[interface{}]
}

// NewBreakerKV wraps inner.
func NewBreakerKV(inner KV, cfg BreakerConfig) *BreakerKV {
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}

	name := "model-store-" + inner.Name()
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, _, to gobreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrKeyNotFound) ||
				errors.Is(err, ErrInvalidKey) || errors.Is(err, context.Canceled)
		},
	}

	return &BreakerKV{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[interface{}](settings),
	}
}

// State returns the breaker state name.
func (b *BreakerKV) State() string {
	return b.cb.State().String()
}

// Has implements KV.
func (b *BreakerKV) Has(ctx context.Context, key string) (bool, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Has(ctx, key)
	})
	if err != nil {
		return false, err
	}
	ok, _ := res.(bool) //nolint:errcheck // type is fixed by the closure above
	return ok, nil
}

// Get implements KV.
func (b *BreakerKV) Get(ctx context.Context, key string) ([]byte, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Get(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	data, _ := res.([]byte) //nolint:errcheck // type is fixed by the closure above
	return data, nil
}

// Put implements KV.
func (b *BreakerKV) Put(ctx context.Context, key string, value []byte) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.inner.Put(ctx, key, value)
	})
	return err
}

// Delete implements KV.
func (b *BreakerKV) Delete(ctx context.Context, key string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.inner.Delete(ctx, key)
	})
	return err
}

// Name implements KV.
func (b *BreakerKV) Name() string {
	return b.inner.Name()
}

// Close implements KV.
func (b *BreakerKV) Close() error {
	return b.inner.Close()
}
