// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

/*
Package metrics provides Prometheus metrics collection and export for observability.

Collectors are package-level variables registered with promauto on import. Callers use
the Record* helpers rather than touching the vectors directly.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Recommendation Metrics:
  - recommend_requests_total: requests by strategy (model, cold_start, empty)
  - recommend_request_duration_seconds: request latency by strategy
  - recommend_cold_start_fallbacks_total: fallbacks by reason
  - recommend_invalid_scores_total: skipped NaN/Inf predictions

Training Metrics:
  - recommend_training_runs_total: runs by result
  - recommend_training_duration_seconds: model fitting time
  - recommend_persist_retries_total, recommend_persist_reconciled_total

Storage and Event Metrics:
  - model_store_operations_total, model_store_operation_duration_seconds
  - circuit_breaker_state
  - model_invalidation_events_total, review_feed_messages_total

HTTP Metrics:
  - api_requests_total, api_request_duration_seconds, api_active_requests
*/
package metrics
