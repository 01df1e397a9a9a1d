// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package api

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tomtom215/ridewise/internal/events"
	"github.com/tomtom215/ridewise/internal/recommend"
)

// RecommendationService is the engine surface the handlers call.
type RecommendationService interface {
	GetRecommendedDrivers(ctx context.Context, riderID int64, topN int) ([]recommend.DriverSummary, error)
	TrainModelForUser(ctx context.Context, riderID int64) (bool, error)
	ModelExistsForUser(ctx context.Context, riderID int64) (bool, error)
	InvalidateUserModel(ctx context.Context, riderID int64) error
	Ready(ctx context.Context) error
	Stats() recommend.Stats
}

// ReviewPublisher forwards submitted reviews as model invalidation events.
type ReviewPublisher interface {
	PublishReview(ctx context.Context, review *events.ReviewSubmitted) (string, error)
}

// HandlerConfig bounds handler work.
type HandlerConfig struct {
	// DefaultTopN is used when top_n is omitted.
	DefaultTopN int

	// RequestTimeout bounds recommendation, lookup and invalidation calls.
	RequestTimeout time.Duration

	// TrainTimeout bounds an explicit training request.
	TrainTimeout time.Duration

	// PublishTimeout bounds one asynchronous review publish.
	PublishTimeout time.Duration
}

// DefaultHandlerConfig returns the handler defaults.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		DefaultTopN:    5,
		RequestTimeout: 10 * time.Second,
		TrainTimeout:   60 * time.Second,
		PublishTimeout: 5 * time.Second,
	}
}

// Handler serves the Ridewise HTTP endpoints.
type Handler struct {
	engine    RecommendationService
	reviews   ReviewPublisher
	config    HandlerConfig
	logger    zerolog.Logger
	startTime time.Time

	// pending tracks asynchronous review publishes.
	pending sync.WaitGroup
}

// NewHandler creates a handler. reviews may be nil, in which case review
// submissions are rejected with 503. Zero config fields take their defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(engine RecommendationService, reviews ReviewPublisher, cfg HandlerConfig, logger zerolog.Logger) *Handler {
	defaults := DefaultHandlerConfig()
	if cfg.DefaultTopN <= 0 {
		cfg.DefaultTopN = defaults.DefaultTopN
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}
	if cfg.TrainTimeout <= 0 {
		cfg.TrainTimeout = defaults.TrainTimeout
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaults.PublishTimeout
	}

	return &Handler{
		engine:    engine,
		reviews:   reviews,
		config:    cfg,
		logger:    logger.With().Str("component", "api").Logger(),
		startTime: time.Now(),
	}
}

// Wait blocks until in-flight review publishes finish or ctx is done.
func (h *Handler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// riderIDParam parses the {riderID} path segment. Only positive IDs are valid.
func riderIDParam(r *http.Request) (int64, bool) {
	riderID, err := strconv.ParseInt(chi.URLParam(r, "riderID"), 10, 64)
	if err != nil || riderID <= 0 {
		return 0, false
	}
	return riderID, true
}
