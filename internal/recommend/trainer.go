// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"

	"github.com/tomtom215/ridewise/internal/metrics"
	"github.com/tomtom215/ridewise/internal/recommend/algorithms"
)

// Trainer fits and persists per-rider pipelines.
type Trainer struct {
	config *Config
	store  ModelStore
	locks  *riderLocks
	logger zerolog.Logger
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newTrainer(cfg *Config, store ModelStore, locks *riderLocks, logger zerolog.Logger) *Trainer {
	return &Trainer{
		config: cfg,
		store:  store,
		locks:  locks,
		logger: logger,
	}
}

// Train fits a pipeline on examples and saves it for riderID.
//
// It returns false without error when there are fewer than MinSamples examples.
// A fit failure is returned as an error; a save that fails every attempt returns
// an error wrapping ErrPersistFailed.
func (t *Trainer) Train(ctx context.Context, riderID int64, examples []FeatureVector) (bool, error) {
	start := time.Now()
	if len(examples) < t.config.Training.MinSamples {
		metrics.RecordTraining("insufficient_data", time.Since(start))
		t.logger.Debug().
			Int64("rider_id", riderID).
			Int("samples", len(examples)).
			Int("required", t.config.Training.MinSamples).
			Msg("not enough training samples")
		return false, nil
	}

	rows := make([][]float64, len(examples))
	labels := make([]float64, len(examples))
	for i := range examples {
		values := examples[i].Values()
		rows[i] = values[:]
		labels[i] = examples[i].Label
	}

	fitCtx, cancel := context.WithTimeout(ctx, t.config.Training.Timeout)
	pipeline, err := algorithms.FitPipeline(fitCtx, rows, labels, t.config.Training.SDCA())
	cancel()
	if err != nil {
		metrics.RecordTraining("failed", time.Since(start))
		return false, fmt.Errorf("fit model for rider %d: %w", riderID, err)
	}

	if err := t.persist(ctx, riderID, pipeline); err != nil {
		metrics.RecordTraining("failed", time.Since(start))
		return false, err
	}

	metrics.RecordTraining("trained", time.Since(start))
	t.logger.Info().
		Int64("rider_id", riderID).
		Int("samples", pipeline.Samples).
		Int("epochs", pipeline.Epochs).
		Dur("duration", time.Since(start)).
		Msg("model trained")
	return true, nil
}

// persist saves the pipeline with bounded exponential backoff. Before each retry it
// checks whether another writer already stored a valid model and, if so, stops.
func (t *Trainer) persist(ctx context.Context, riderID int64, p *algorithms.Pipeline) error {
	cfg := t.config.Persistence

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialBackoff
	b.MaxInterval = cfg.MaxBackoff

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		if attempt > 1 {
			metrics.RecordPersistRetry()
			if t.reconciled(ctx, riderID) {
				metrics.RecordPersistReconciled()
				t.logger.Info().
					Int64("rider_id", riderID).
					Int("attempt", attempt).
					Msg("model already persisted by another writer")
				return struct{}{}, nil
			}
		}

		unlock := t.locks.Lock(riderID)
		defer unlock()
		return struct{}{}, t.store.Save(ctx, riderID, p)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(cfg.MaxAttempts)), //nolint:gosec // validated >= 1
		backoff.WithNotify(func(err error, wait time.Duration) {
			t.logger.Warn().
				Err(err).
				Int64("rider_id", riderID).
				Int("attempt", attempt).
				Dur("retry_in", wait).
				Msg("model save failed, retrying")
		}),
	)
	if err != nil {
		return fmt.Errorf("%w: rider %d after %d attempts: %w", ErrPersistFailed, riderID, attempt, err)
	}
	return nil
}

func (t *Trainer) reconciled(ctx context.Context, riderID int64) bool {
	p, err := t.store.Load(ctx, riderID)
	return err == nil && p.Validate() == nil
}
