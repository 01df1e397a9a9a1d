// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

/*
Package api provides the HTTP REST API layer for Ridewise.

Routes are served by a chi router with a shared middleware stack: request IDs
wired into the logging context, real client IP extraction, panic recovery,
CORS, per-IP rate limiting and Prometheus request metrics.

Endpoints:

	GET    /api/v1/riders/{riderID}/recommendations?top_n=N
	POST   /api/v1/riders/{riderID}/model/train
	GET    /api/v1/riders/{riderID}/model
	DELETE /api/v1/riders/{riderID}/model
	POST   /api/v1/events/review-submitted
	GET    /api/v1/recommendations/stats
	GET    /api/v1/health/live
	GET    /api/v1/health/ready
	GET    /metrics

Every JSON response uses the same envelope:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "...", "query_time_ms": 3},
	  "error": {"code": "INVALID_RIDER_ID", "message": "..."}
	}

The error object is present only when status is "error".
*/
package api
