// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/ridewise/internal/metrics"
	"github.com/tomtom215/ridewise/internal/recommend/algorithms"
)

// Fallback reasons reported when the model path hands over to cold start.
const (
	fallbackNoModel       = "no_model"
	fallbackLoadFailed    = "load_failed"
	fallbackNoValidScores = "no_valid_scores"
)

// Dependencies are the engine's external collaborators.
type Dependencies struct {
	History    RideHistoryProvider
	Candidates CandidateSource
	Store      ModelStore

	// Now overrides the wall clock used for prediction time buckets. Optional.
	Now func() time.Time
}

// Pinger is implemented by collaborators that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Engine ranks drivers for riders and manages their models.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	history    RideHistoryProvider
	candidates CandidateSource
	store      ModelStore

	extractor FeatureExtractor
	scorer    HistoryScorer
	predictor Predictor
	coldStart ColdStartRanker
	trainer   *Trainer

	locks    *riderLocks
	training singleflight.Group

	requests           atomic.Int64
	modelResponses     atomic.Int64
	coldStartResponses atomic.Int64
	emptyResponses     atomic.Int64
	invalidScores      atomic.Int64
	modelLoadFailures  atomic.Int64
	trainingsSucceeded atomic.Int64
	trainingsSkipped   atomic.Int64
	trainingsFailed    atomic.Int64
	invalidations      atomic.Int64
}

// NewEngine creates an engine. A nil cfg uses DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	switch {
	case deps.History == nil:
		return nil, fmt.Errorf("%w: ride history provider", ErrMissingDependency)
	case deps.Candidates == nil:
		return nil, fmt.Errorf("%w: candidate source", ErrMissingDependency)
	case deps.Store == nil:
		return nil, fmt.Errorf("%w: model store", ErrMissingDependency)
	}

	cfg = cfg.Clone()
	logger = logger.With().Str("component", "recommend").Logger()
	locks := newRiderLocks()

	return &Engine{
		config:     cfg,
		logger:     logger,
		history:    deps.History,
		candidates: deps.Candidates,
		store:      deps.Store,
		extractor:  NewFeatureExtractor(deps.Now),
		trainer:    newTrainer(cfg, deps.Store, locks, logger),
		locks:      locks,
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// ClampTopN bounds n to the configured [MinTopN, MaxTopN] range.
func (e *Engine) ClampTopN(n int) int {
	switch {
	case n < e.config.Limits.MinTopN:
		return e.config.Limits.MinTopN
	case n > e.config.Limits.MaxTopN:
		return e.config.Limits.MaxTopN
	default:
		return n
	}
}

// GetRecommendedDrivers returns up to requested drivers for riderID, best
// first. requested is clamped to the configured limits.
//
// No eligible candidates yields an empty list. A missing, unreadable or unusable
// model falls back to cold-start ranking. Errors are returned only when the
// candidate source or ride history cannot be read.
func (e *Engine) GetRecommendedDrivers(ctx context.Context, riderID int64, requested int) ([]DriverSummary, error) {
	start := time.Now()
	e.requests.Add(1)
	n := e.ClampTopN(requested)
	logger := e.logger.With().Int64("rider_id", riderID).Int("top_n", n).Logger()

	candidates, err := e.candidates.GetEligibleDrivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("get eligible drivers: %w", err)
	}
	candidates = eligible(candidates)
	if len(candidates) == 0 {
		e.emptyResponses.Add(1)
		metrics.RecordRecommendation("empty", time.Since(start))
		logger.Debug().Msg("no eligible drivers")
		return []DriverSummary{}, nil
	}

	history, err := e.history.GetRideHistory(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("get ride history for rider %d: %w", riderID, err)
	}

	pipeline, reason := e.loadModel(ctx, riderID, logger)
	if pipeline == nil {
		return e.coldStartResult(riderID, candidates, history, n, reason, start), nil
	}

	result := e.scoreWithModel(riderID, pipeline, candidates, history, logger)
	if len(result) == 0 {
		logger.Info().Msg("no valid model scores, using cold start")
		return e.coldStartResult(riderID, candidates, history, n, fallbackNoValidScores, start), nil
	}

	result = topN(result, n)
	e.modelResponses.Add(1)
	metrics.RecordRecommendation(string(StrategyModel), time.Since(start))
	logger.Debug().
		Int("candidates", len(candidates)).
		Int("returned", len(result)).
		Msg("model recommendations")
	return result, nil
}

// loadModel returns the rider's pipeline, or nil and the fallback reason.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) loadModel(ctx context.Context, riderID int64, logger zerolog.Logger) (*algorithms.Pipeline, string) {
	exists, err := e.store.Exists(ctx, riderID)
	if err != nil {
		e.modelLoadFailures.Add(1)
		logger.Warn().Err(err).Msg("model lookup failed, using cold start")
		return nil, fallbackLoadFailed
	}
	if !exists {
		return nil, fallbackNoModel
	}

	pipeline, err := e.store.Load(ctx, riderID)
	if err != nil {
		e.modelLoadFailures.Add(1)
		logger.Warn().Err(err).Msg("model load failed, using cold start")
		return nil, fallbackLoadFailed
	}
	return pipeline, ""
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) scoreWithModel(riderID int64, p *algorithms.Pipeline, candidates []DriverCandidate,
	history []RideRecord, logger zerolog.Logger) []DriverSummary {
	averages := ComputeRiderAverages(riderID, history)
	out := make([]DriverSummary, 0, len(candidates))

	for i := range candidates {
		c := &candidates[i]
		if e.scorer.ShouldExclude(riderID, c.DriverID, history) {
			continue
		}
		score, err := e.predictor.Score(p, e.extractor.ExtractPredictionFeatures(c, averages))
		if err != nil {
			e.invalidScores.Add(1)
			metrics.RecordInvalidScore()
			logger.Warn().Err(err).Int64("driver_id", c.DriverID).Msg("skipping driver with invalid score")
			continue
		}
		bonus := e.scorer.ComputeBonus(riderID, c.DriverID, history)
		out = append(out, newSummary(c, score+bonus, bonus, StrategyModel))
	}
	return out
}

func (e *Engine) coldStartResult(riderID int64, candidates []DriverCandidate, history []RideRecord,
	n int, reason string, start time.Time) []DriverSummary {
	e.coldStartResponses.Add(1)
	metrics.RecordFallback(reason)
	result := e.coldStart.Rank(riderID, candidates, history, n)
	metrics.RecordRecommendation(string(StrategyColdStart), time.Since(start))
	return result
}

// eligible keeps active drivers with an active vehicle.
func eligible(candidates []DriverCandidate) []DriverCandidate {
	out := candidates[:0:0]
	for i := range candidates {
		if candidates[i].Status == DriverStatusActive && candidates[i].HasActiveVehicle {
			out = append(out, candidates[i])
		}
	}
	return out
}

// TrainModelForUser trains a model for riderID unless one already exists.
//
// It returns true when a model exists afterwards. Insufficient data and
// persistence failures return false with a nil error. Concurrent calls for the
// same rider share one training run. The shared run is detached from every
// caller's cancellation and bounded by the training budget instead, so a
// caller that gives up only ends its own wait.
func (e *Engine) TrainModelForUser(ctx context.Context, riderID int64) (bool, error) {
	ch := e.training.DoChan(strconv.FormatInt(riderID, 10), func() (interface{}, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.config.trainingBudget())
		defer cancel()
		return e.trainModel(runCtx, riderID)
	})

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	}
}

func (e *Engine) trainModel(ctx context.Context, riderID int64) (bool, error) {
	logger := e.logger.With().Int64("rider_id", riderID).Logger()

	exists, err := e.store.Exists(ctx, riderID)
	if err != nil {
		return false, fmt.Errorf("check model for rider %d: %w", riderID, err)
	}
	if exists {
		metrics.RecordTraining("exists", 0)
		logger.Debug().Msg("model already exists, skipping training")
		return true, nil
	}

	history, err := e.history.GetRideHistory(ctx, riderID)
	if err != nil {
		return false, fmt.Errorf("get ride history for rider %d: %w", riderID, err)
	}

	examples := e.extractor.TrainingExamples(riderID, history)
	trained, err := e.trainer.Train(ctx, riderID, examples)
	switch {
	case err != nil && ctx.Err() != nil:
		e.trainingsFailed.Add(1)
		return false, ctx.Err()
	case err != nil:
		e.trainingsFailed.Add(1)
		logger.Error().Err(err).Msg("training failed")
		return false, nil
	case !trained:
		e.trainingsSkipped.Add(1)
		return false, nil
	}

	e.trainingsSucceeded.Add(1)
	return true, nil
}

// ModelExistsForUser reports whether a model is stored for riderID.
func (e *Engine) ModelExistsForUser(ctx context.Context, riderID int64) (bool, error) {
	exists, err := e.store.Exists(ctx, riderID)
	if err != nil {
		return false, fmt.Errorf("check model for rider %d: %w", riderID, err)
	}
	return exists, nil
}

// InvalidateUserModel deletes the model for riderID. Absent models are not an error.
func (e *Engine) InvalidateUserModel(ctx context.Context, riderID int64) error {
	unlock := e.locks.Lock(riderID)
	defer unlock()

	if err := e.store.Invalidate(ctx, riderID); err != nil {
		return fmt.Errorf("invalidate model for rider %d: %w", riderID, err)
	}
	e.invalidations.Add(1)
	e.logger.Debug().Int64("rider_id", riderID).Msg("model invalidated")
	return nil
}

// Ready pings every collaborator that supports it.
func (e *Engine) Ready(ctx context.Context) error {
	var errs []error
	for name, dep := range map[string]any{
		"model_store": e.store,
		"history":     e.history,
		"candidates":  e.candidates,
	} {
		if p, ok := dep.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Stats returns a snapshot of engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests:           e.requests.Load(),
		ModelResponses:     e.modelResponses.Load(),
		ColdStartResponses: e.coldStartResponses.Load(),
		EmptyResponses:     e.emptyResponses.Load(),
		InvalidScores:      e.invalidScores.Load(),
		ModelLoadFailures:  e.modelLoadFailures.Load(),
		TrainingsSucceeded: e.trainingsSucceeded.Load(),
		TrainingsSkipped:   e.trainingsSkipped.Load(),
		TrainingsFailed:    e.trainingsFailed.Load(),
		Invalidations:      e.invalidations.Load(),
	}
}
