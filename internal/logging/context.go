// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	riderIDKey
	loggerKey
)

// GenerateRequestID returns a new random request ID.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID attaches a request ID to ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string) //nolint:errcheck // type assertion, not an error
	return id
}

// ContextWithRiderID attaches the rider a request is about.
func ContextWithRiderID(ctx context.Context, riderID int64) context.Context {
	return context.WithValue(ctx, riderIDKey, riderID)
}

// RiderIDFromContext returns the rider ID in ctx and whether one was set.
func RiderIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(riderIDKey).(int64)
	return id, ok
}

// ContextWithLogger stores a base logger for Ctx to use instead of the global one.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// Ctx returns a logger carrying the request and rider IDs found in ctx.
//
//	logging.Ctx(ctx).Info().Msg("Recommendations served")
//	// {"level":"info","request_id":"...","rider_id":42,"message":"Recommendations served"}
func Ctx(ctx context.Context) *zerolog.Logger {
	base, ok := ctx.Value(loggerKey).(zerolog.Logger)
	if !ok {
		base = Logger()
	}

	zctx := base.With()
	if id := RequestIDFromContext(ctx); id != "" {
		zctx = zctx.Str("request_id", id)
	}
	if riderID, ok := RiderIDFromContext(ctx); ok {
		zctx = zctx.Int64("rider_id", riderID)
	}
	logger := zctx.Logger()
	return &logger
}
