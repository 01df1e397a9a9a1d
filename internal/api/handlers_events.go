// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ridewise/internal/events"
	"github.com/tomtom215/ridewise/internal/logging"
	"github.com/tomtom215/ridewise/internal/validation"
)

// maxEventBodyBytes caps review event payloads.
const maxEventBodyBytes = 64 << 10

// ReviewSubmitted handles POST /api/v1/events/review-submitted.
//
// The review is validated synchronously and published in the background; the
// response is 202 as soon as the payload is accepted. Publish failures are
// logged and counted but never reach the caller.
func (h *Handler) ReviewSubmitted(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.reviews == nil {
		respondError(w, http.StatusServiceUnavailable, "EVENTS_DISABLED", "Event publishing is not configured", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxEventBodyBytes)
	var review events.ReviewSubmitted
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&review); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be a review JSON object", nil)
		return
	}

	if verr := validation.ValidateStruct(&review); verr != nil {
		apiErr := verr.ToAPIError()
		respondAPIError(w, http.StatusBadRequest, &APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		})
		return
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}

	requestID := logging.RequestIDFromContext(r.Context())
	h.publishAsync(&review, requestID)

	respondSuccess(w, http.StatusAccepted, map[string]interface{}{
		"accepted":  true,
		"review_id": review.ReviewID,
		"rider_id":  review.RiderID,
	}, start)
}

// publishAsync publishes review on a context detached from the HTTP request.
func (h *Handler) publishAsync(review *events.ReviewSubmitted, requestID string) {
	h.pending.Add(1)
	go func() {
		defer h.pending.Done()

		ctx := logging.ContextWithLogger(context.Background(), h.logger)
		ctx = logging.ContextWithRequestID(ctx, requestID)
		ctx = logging.ContextWithRiderID(ctx, review.RiderID)
		ctx, cancel := context.WithTimeout(ctx, h.config.PublishTimeout)
		defer cancel()

		eventID, err := h.reviews.PublishReview(ctx, review)
		logger := logging.Ctx(ctx).With().Int64("review_id", review.ReviewID).Logger()
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to publish model invalidation for review")
			return
		}
		logger.Debug().Str("event_id", eventID).Msg("Published model invalidation for review")
	}()
}
