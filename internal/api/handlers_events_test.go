// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package api

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"
)

const validReview = `{"review_id":31,"ride_id":12,"rider_id":4,"driver_id":9,"rating":4.5}`

func waitPending(t *testing.T, h *Handler) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.Wait(ctx); err != nil {
		t.Fatalf("Wait() = %v, want nil", err)
	}
}

func TestReviewSubmitted_Accepted(t *testing.T) {
	t.Parallel()

	reviews := &fakeReviews{}
	router, handler := newTestRouter(&fakeEngine{}, reviews)

	w := serve(t, router, http.MethodPost, "/api/v1/events/review-submitted", validReview)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusAccepted, w.Body.String())
	}

	waitPending(t, handler)
	if reviews.count() != 1 {
		t.Fatalf("published = %d, want 1", reviews.count())
	}

	got := reviews.published[0]
	if got.RiderID != 4 || got.ReviewID != 31 || got.Rating != 4.5 {
		t.Errorf("published review = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at not defaulted")
	}
}

func TestReviewSubmitted_PublishFailureStillAccepted(t *testing.T) {
	t.Parallel()

	reviews := &fakeReviews{err: errBackend}
	router, handler := newTestRouter(&fakeEngine{}, reviews)

	w := serve(t, router, http.MethodPost, "/api/v1/events/review-submitted", validReview)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusAccepted)
	}
	waitPending(t, handler)
}

func TestReviewSubmitted_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		wantCode  string
		wantField string
	}{
		{"malformed_json", `{"review_id":`, "INVALID_REQUEST", ""},
		{"unknown_field", `{"review_id":1,"ride_id":1,"rider_id":1,"driver_id":1,"rating":3,"tip":2}`, "INVALID_REQUEST", ""},
		{"rating_above_range", `{"review_id":1,"ride_id":1,"rider_id":1,"driver_id":1,"rating":5.5}`, "VALIDATION_ERROR", "rating"},
		{"negative_rating", `{"review_id":1,"ride_id":1,"rider_id":1,"driver_id":1,"rating":-1}`, "VALIDATION_ERROR", "rating"},
		{"missing_rider", `{"review_id":1,"ride_id":1,"driver_id":1,"rating":3}`, "VALIDATION_ERROR", "rider_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reviews := &fakeReviews{}
			router, handler := newTestRouter(&fakeEngine{}, reviews)

			w := serve(t, router, http.MethodPost, "/api/v1/events/review-submitted", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusBadRequest, w.Body.String())
			}
			env := decodeEnvelope(t, w)
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Fatalf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
			if tt.wantField != "" && env.Error.Details["field"] != tt.wantField {
				t.Errorf("details.field = %v, want %s", env.Error.Details["field"], tt.wantField)
			}

			waitPending(t, handler)
			if reviews.count() != 0 {
				t.Errorf("published = %d, want 0", reviews.count())
			}
		})
	}
}

func TestReviewSubmitted_EventsDisabled(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(&fakeEngine{}, nil)
	w := serve(t, router, http.MethodPost, "/api/v1/events/review-submitted", validReview)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestReviewSubmitted_BodyTooLarge(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(&fakeEngine{}, &fakeReviews{})
	body := `{"review_id":1,"pad":"` + strings.Repeat("x", maxEventBodyBytes) + `"}`

	w := serve(t, router, http.MethodPost, "/api/v1/events/review-submitted", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
