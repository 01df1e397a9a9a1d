// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of driver recommendation requests by scoring strategy",
		},
		[]string{"strategy"}, // "model", "cold_start", "empty"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_request_duration_seconds",
			Help:    "Duration of driver recommendation requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"strategy"},
	)

	RecommendationFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_cold_start_fallbacks_total",
			Help: "Total number of fallbacks to cold-start ranking by reason",
		},
		[]string{"reason"}, // "no_model", "load_failed", "no_valid_scores"
	)

	InvalidScores = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_invalid_scores_total",
			Help: "Total number of NaN or infinite predicted scores skipped",
		},
	)

	// Training Metrics
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_training_runs_total",
			Help: "Total number of per-rider training runs by result",
		},
		[]string{"result"}, // "trained", "exists", "insufficient_data", "failed"
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_training_duration_seconds",
			Help:    "Duration of per-rider model fitting in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	PersistRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_persist_retries_total",
			Help: "Total number of model save attempts that were retried",
		},
	)

	PersistReconciled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_persist_reconciled_total",
			Help: "Total number of saves resolved by a concurrently written model",
		},
	)

	// Model Store Metrics
	ModelStoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_store_operation_duration_seconds",
			Help:    "Duration of model store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	ModelStoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_store_operations_total",
			Help: "Total number of model store operations by result",
		},
		[]string{"backend", "operation", "result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ride_db_query_duration_seconds",
			Help:    "Duration of ride database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ride_db_query_errors_total",
			Help: "Total number of ride database query errors",
		},
		[]string{"operation", "table"},
	)

	// Event Metrics
	InvalidationEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_invalidation_events_total",
			Help: "Total number of model invalidation events by stage and result",
		},
		[]string{"stage", "result"}, // stage: "published", "consumed"
	)

	ReviewFeedMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_feed_messages_total",
			Help: "Total number of review-submitted messages read from Kafka by result",
		},
		[]string{"result"}, // "forwarded", "malformed", "failed"
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// RecordRecommendation records a completed recommendation request.
func RecordRecommendation(strategy string, duration time.Duration) {
	RecommendationRequests.WithLabelValues(strategy).Inc()
	RecommendationDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// RecordFallback records a fall back to cold-start ranking.
func RecordFallback(reason string) {
	RecommendationFallbacks.WithLabelValues(reason).Inc()
}

// RecordInvalidScore records a skipped non-finite prediction.
func RecordInvalidScore() {
	InvalidScores.Inc()
}

// RecordTraining records a training run outcome. duration is observed only for runs that fitted a model.
func RecordTraining(result string, duration time.Duration) {
	TrainingRuns.WithLabelValues(result).Inc()
	if duration > 0 {
		TrainingDuration.Observe(duration.Seconds())
	}
}

// RecordPersistRetry records a retried model save.
func RecordPersistRetry() {
	PersistRetries.Inc()
}

// RecordPersistReconciled records a save satisfied by another writer's model.
func RecordPersistReconciled() {
	PersistReconciled.Inc()
}

// RecordModelStoreOp records a model store operation.
func RecordModelStoreOp(backend, operation, result string, duration time.Duration) {
	ModelStoreOps.WithLabelValues(backend, operation, result).Inc()
	ModelStoreOpDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// SetCircuitBreakerState sets the gauge for a named breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordInvalidationEvent records an invalidation event at a pipeline stage.
func RecordInvalidationEvent(stage string, success bool) {
	result := "success"
	if !success {
		result = "error"
	}
	InvalidationEvents.WithLabelValues(stage, result).Inc()
}

// RecordReviewFeedMessage records a Kafka review message outcome.
func RecordReviewFeedMessage(result string) {
	ReviewFeedMessages.WithLabelValues(result).Inc()
}

// RecordDBQuery records a ride database query.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
