// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package events

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/ridewise/internal/config"
	"github.com/tomtom215/ridewise/internal/metrics"
)

// Publisher sends ModelInvalidated events to one topic.
// With the breaker disabled, events are published directly.
type Publisher struct {
	pub    message.Publisher
	topic  string
	cb     *gobreaker.CircuitBreaker[interface{}]
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewPublisher creates a publisher for topic over pub.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPublisher(pub message.Publisher, topic string, breaker config.BreakerConfig, logger zerolog.Logger) *Publisher {
	p := &Publisher{
		pub:    pub,
		topic:  topic,
		logger: logger.With().Str("component", "invalidation_publisher").Logger(),
	}
	if breaker.Enabled {
		p.cb = newBreaker("event-publisher", breaker)
	}
	return p
}

func newBreaker(name string, cfg config.BreakerConfig) *gobreaker.CircuitBreaker[interface{}] {
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}

	return gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, _, to gobreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
		},
	})
}

// Topic returns the destination topic.
func (p *Publisher) Topic() string {
	return p.topic
}

// BreakerState returns the circuit breaker state, or "disabled".
func (p *Publisher) BreakerState() string {
	if p.cb == nil {
		return "disabled"
	}
	return p.cb.State().String()
}

// Publish validates and sends event.
func (p *Publisher) Publish(ctx context.Context, event *ModelInvalidated) error {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return ErrPublisherClosed
	}

	data, err := Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(event.EventID, data)
	msg.SetContext(ctx)
	msg.Metadata.Set("rider_id", strconv.FormatInt(event.RiderID, 10))
	msg.Metadata.Set("reason", event.Reason)

	if p.cb != nil {
		_, err = p.cb.Execute(func() (interface{}, error) {
			return nil, p.pub.Publish(p.topic, msg)
		})
	} else {
		err = p.pub.Publish(p.topic, msg)
	}

	metrics.RecordInvalidationEvent("published", err == nil)
	if err != nil {
		p.logger.Warn().Err(err).
			Str("event_id", event.EventID).
			Int64("rider_id", event.RiderID).
			Msg("Failed to publish model invalidation")
		return err
	}

	p.logger.Debug().
		Str("event_id", event.EventID).
		Int64("rider_id", event.RiderID).
		Str("reason", event.Reason).
		Msg("Published model invalidation")
	return nil
}

// PublishInvalidation publishes a new event for riderID and returns its ID.
func (p *Publisher) PublishInvalidation(ctx context.Context, riderID int64, reason string) (string, error) {
	event := NewModelInvalidated(riderID, reason)
	if err := p.Publish(ctx, event); err != nil {
		return "", err
	}
	return event.EventID, nil
}

// PublishReview publishes the invalidation a submitted review triggers.
func (p *Publisher) PublishReview(ctx context.Context, review *ReviewSubmitted) (string, error) {
	if err := review.Validate(); err != nil {
		return "", err
	}
	event := review.Invalidation()
	if err := p.Publish(ctx, event); err != nil {
		return "", err
	}
	return event.EventID, nil
}

// Close stops further publishing. The underlying transport is owned by the Bus.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
