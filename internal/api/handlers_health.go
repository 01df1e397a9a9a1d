// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package api

import (
	"context"
	"net/http"
	"time"
)

// readyTimeout bounds the dependency pings behind the readiness probe.
const readyTimeout = 3 * time.Second

// HealthLive handles GET /api/v1/health/live. It only reports that the
// process is serving HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles GET /api/v1/health/ready. It returns 503 while the model
// store or ride database cannot be reached.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	err := h.engine.Ready(ctx)

	statusCode := http.StatusOK
	status := "ready"
	data := map[string]interface{}{
		"ready_to_serve": err == nil,
		"uptime":         time.Since(h.startTime).Seconds(),
	}
	if err != nil {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
		data["reason"] = err.Error()
		h.logger.Warn().Err(err).Msg("Readiness check failed")
	}

	respondJSON(w, statusCode, &APIResponse{
		Status: status,
		Data:   data,
		Metadata: Metadata{
			Timestamp: time.Now(),
		},
	})
}
