// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/ridewise/internal/events"
	"github.com/tomtom215/ridewise/internal/recommend"
)

var errBackend = errors.New("backend down")

// fakeEngine records calls and returns canned results.
type fakeEngine struct {
	mu sync.Mutex

	drivers  []recommend.DriverSummary
	trained  bool
	exists   bool
	err      error
	readyErr error
	stats    recommend.Stats

	lastRiderID int64
	lastTopN    int
	invalidated []int64
}

func (f *fakeEngine) GetRecommendedDrivers(_ context.Context, riderID int64, topN int) ([]recommend.DriverSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRiderID = riderID
	f.lastTopN = topN
	return f.drivers, f.err
}

func (f *fakeEngine) TrainModelForUser(_ context.Context, riderID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRiderID = riderID
	return f.trained, f.err
}

func (f *fakeEngine) ModelExistsForUser(_ context.Context, riderID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRiderID = riderID
	return f.exists, f.err
}

func (f *fakeEngine) InvalidateUserModel(_ context.Context, riderID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.invalidated = append(f.invalidated, riderID)
	return nil
}

func (f *fakeEngine) Ready(_ context.Context) error {
	return f.readyErr
}

func (f *fakeEngine) Stats() recommend.Stats {
	return f.stats
}

// fakeReviews captures published reviews.
type fakeReviews struct {
	mu        sync.Mutex
	published []*events.ReviewSubmitted
	err       error
}

func (f *fakeReviews) PublishReview(_ context.Context, review *events.ReviewSubmitted) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.published = append(f.published, review)
	return "evt-1", nil
}

func (f *fakeReviews) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

func newTestRouter(engine *fakeEngine, reviews ReviewPublisher) (http.Handler, *Handler) {
	handler := NewHandler(engine, reviews, HandlerConfig{}, zerolog.Nop())
	mw := NewMiddleware(&MiddlewareConfig{
		CORSAllowedOrigins: []string{"https://app.example.com"},
		CORSAllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type"},
		RateLimitDisabled:  true,
	})
	return NewRouter(handler, mw).Setup(), handler
}

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// testEnvelope mirrors APIResponse with a raw data field.
type testEnvelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata Metadata        `json:"metadata"`
	Error    *APIError       `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) testEnvelope {
	t.Helper()

	var env testEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, env testEnvelope, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data %q: %v", string(env.Data), err)
	}
}

func floatPtr(v float64) *float64 { return &v }
