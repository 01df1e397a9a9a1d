// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/ridewise/internal/metrics"
)

const defaultHandleTimeout = 10 * time.Second

var errSubscriptionClosed = errors.New("subscription closed")

// ModelInvalidator deletes a rider's cached model.
type ModelInvalidator interface {
	InvalidateUserModel(ctx context.Context, riderID int64) error
}

// InvalidationConsumer applies ModelInvalidated events. It is a suture.Service.
//
// Every message is acknowledged after one attempt. A failed invalidation is
// logged and counted, never redelivered.
type InvalidationConsumer struct {
	sub     message.Subscriber
	topic   string
	target  ModelInvalidator
	timeout time.Duration
	logger  zerolog.Logger

	ready     chan struct{}
	readyOnce sync.Once
}

// NewInvalidationConsumer creates a consumer of topic that invalidates through target.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewInvalidationConsumer(sub message.Subscriber, topic string, target ModelInvalidator, logger zerolog.Logger) *InvalidationConsumer {
	return &InvalidationConsumer{
		sub:     sub,
		topic:   topic,
		target:  target,
		timeout: defaultHandleTimeout,
		logger:  logger.With().Str("service", "invalidation-consumer").Logger(),
		ready:   make(chan struct{}),
	}
}

// Serve implements suture.Service.
func (c *InvalidationConsumer) Serve(ctx context.Context) error {
	messages, err := c.sub.Subscribe(ctx, c.topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", c.topic, err)
	}
	c.readyOnce.Do(func() { close(c.ready) })

	c.logger.Info().Str("topic", c.topic).Msg("invalidation consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errSubscriptionClosed
			}
			c.handle(ctx, msg)
		}
	}
}

func (c *InvalidationConsumer) handle(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	event, err := UnmarshalInvalidation(msg.Payload)
	if err != nil {
		metrics.RecordInvalidationEvent("consumed", false)
		c.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed invalidation event")
		return
	}

	hctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.target.InvalidateUserModel(hctx, event.RiderID); err != nil {
		metrics.RecordInvalidationEvent("consumed", false)
		c.logger.Warn().Err(err).
			Str("event_id", event.EventID).
			Int64("rider_id", event.RiderID).
			Msg("Model invalidation failed")
		return
	}

	metrics.RecordInvalidationEvent("consumed", true)
	c.logger.Debug().
		Str("event_id", event.EventID).
		Int64("rider_id", event.RiderID).
		Str("reason", event.Reason).
		Msg("Model invalidated")
}

// String implements fmt.Stringer for suture logging.
func (c *InvalidationConsumer) String() string {
	return "invalidation-consumer"
}
