// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

/*
Package events carries model invalidation requests to the recommendation engine.

A submitted review makes the reviewing rider's model stale. The review workflow
(over HTTP or the Kafka feed) publishes a ModelInvalidated event, and the
InvalidationConsumer deletes the model when the event arrives. Delivery is
at-most-once and eventually visible: each message is acknowledged after a single
attempt, whatever the outcome, and no ordering against in-flight recommendation
requests is assumed.

# Transports

Bus pairs a Watermill publisher and subscriber:

  - memory: Watermill gochannel, single process (default)
  - nats: NATS JetStream through watermill-nats (requires -tags=nats)

# Components

  - Publisher: serializes ModelInvalidated and publishes through a gobreaker circuit breaker
  - InvalidationConsumer: suture service calling InvalidateUserModel per event
  - ReviewFeed: suture service reading ReviewSubmitted JSON from Kafka (segmentio/kafka-go)
*/
package events
