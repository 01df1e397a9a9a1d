// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// GarbageCollector reclaims space in a model store.
// Satisfied by *storage.BadgerKV.
type GarbageCollector interface {
	RunGC(discardRatio float64) (int, error)
}

// StoreGCConfig configures StoreGCService.
type StoreGCConfig struct {
	// Interval between collection runs.
	// Default: 10m
	Interval time.Duration

	// DiscardRatio is the fraction of stale data a value log file needs
	// before it is rewritten.
	// Default: 0.5
	DiscardRatio float64
}

// StoreGCService periodically runs value log garbage collection. Model saves
// and invalidations overwrite whole values, so stale pipelines accumulate
// until collected.
type StoreGCService struct {
	gc     GarbageCollector
	config StoreGCConfig
	logger zerolog.Logger
	name   string
}

// NewStoreGCService creates the service. Zero config fields take their defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStoreGCService(gc GarbageCollector, cfg StoreGCConfig, logger zerolog.Logger) *StoreGCService {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.DiscardRatio <= 0 || cfg.DiscardRatio >= 1 {
		cfg.DiscardRatio = 0.5
	}
	return &StoreGCService{
		gc:     gc,
		config: cfg,
		logger: logger.With().Str("service", "store-gc").Logger(),
		name:   "store-gc",
	}
}

// Serve implements suture.Service. GC failures are logged and retried on the
// next tick rather than restarting the service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Float64("discard_ratio", s.config.DiscardRatio).
		Msg("store gc service starting")

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("store gc service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.collect()
		}
	}
}

func (s *StoreGCService) collect() {
	start := time.Now()
	rewrites, err := s.gc.RunGC(s.config.DiscardRatio)
	if err != nil {
		s.logger.Warn().Err(err).Msg("store gc failed")
		return
	}
	s.logger.Debug().
		Int("rewrites", rewrites).
		Dur("duration", time.Since(start)).
		Msg("store gc complete")
}

// String implements fmt.Stringer.
func (s *StoreGCService) String() string {
	return s.name
}
