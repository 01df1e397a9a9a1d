// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/ridewise/internal/logging"
	"github.com/tomtom215/ridewise/internal/recommend"
)

// RecommendationsResponse is the payload of GetRecommendations.
type RecommendationsResponse struct {
	RiderID int64                     `json:"rider_id"`
	TopN    int                       `json:"top_n"`
	Drivers []recommend.DriverSummary `json:"drivers"`
}

// GetRecommendations handles GET /api/v1/riders/{riderID}/recommendations.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	riderID, ok := riderIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "INVALID_RIDER_ID", "Rider ID must be a positive integer", nil)
		return
	}

	topN := h.config.DefaultTopN
	if raw := r.URL.Query().Get("top_n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_TOP_N", "top_n must be an integer", nil)
			return
		}
		topN = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	drivers, err := h.engine.GetRecommendedDrivers(ctx, riderID, topN)
	if err != nil {
		h.respondEngineError(w, "RECOMMENDATION_ERROR", "Failed to generate recommendations", err)
		return
	}
	if drivers == nil {
		drivers = []recommend.DriverSummary{}
	}

	logging.Ctx(logging.ContextWithRiderID(r.Context(), riderID)).Debug().
		Int("returned", len(drivers)).
		Msg("Recommendations served")

	respondSuccess(w, http.StatusOK, RecommendationsResponse{
		RiderID: riderID,
		TopN:    topN,
		Drivers: drivers,
	}, start)
}

// TrainModel handles POST /api/v1/riders/{riderID}/model/train.
// trained is false when the rider has too few reviewed rides or fitting failed.
func (h *Handler) TrainModel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	riderID, ok := riderIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "INVALID_RIDER_ID", "Rider ID must be a positive integer", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.TrainTimeout)
	defer cancel()

	trained, err := h.engine.TrainModelForUser(ctx, riderID)
	if err != nil {
		h.respondEngineError(w, "TRAINING_ERROR", "Failed to train model", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"rider_id": riderID,
		"trained":  trained,
	}, start)
}

// GetModelStatus handles GET /api/v1/riders/{riderID}/model.
func (h *Handler) GetModelStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	riderID, ok := riderIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "INVALID_RIDER_ID", "Rider ID must be a positive integer", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	exists, err := h.engine.ModelExistsForUser(ctx, riderID)
	if err != nil {
		h.respondEngineError(w, "MODEL_STORE_ERROR", "Failed to check model", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"rider_id": riderID,
		"exists":   exists,
	}, start)
}

// InvalidateModel handles DELETE /api/v1/riders/{riderID}/model. Deleting an
// absent model succeeds.
func (h *Handler) InvalidateModel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	riderID, ok := riderIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "INVALID_RIDER_ID", "Rider ID must be a positive integer", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	if err := h.engine.InvalidateUserModel(ctx, riderID); err != nil {
		h.respondEngineError(w, "MODEL_STORE_ERROR", "Failed to invalidate model", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"rider_id":    riderID,
		"invalidated": true,
	}, start)
}

// Stats handles GET /api/v1/recommendations/stats.
func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, h.engine.Stats(), time.Now())
}

func (h *Handler) respondEngineError(w http.ResponseWriter, code, message string, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		respondError(w, http.StatusGatewayTimeout, "TIMEOUT", "Request timed out", err)
		return
	}
	respondError(w, http.StatusInternalServerError, code, message, err)
}
