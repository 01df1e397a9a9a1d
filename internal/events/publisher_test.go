// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package events

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/ridewise/internal/config"
)

func TestPublisher_PublishInvalidation(t *testing.T) {
	t.Parallel()

	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := bus.Subscriber.Subscribe(ctx, testTopic)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	pub := NewPublisher(bus.Publisher, testTopic, config.BreakerConfig{Enabled: true}, nopLogger())
	eventID, err := pub.PublishInvalidation(ctx, 7, ReasonManual)
	if err != nil {
		t.Fatalf("PublishInvalidation() error = %v", err)
	}

	select {
	case msg := <-messages:
		msg.Ack()
		if msg.UUID != eventID {
			t.Errorf("message UUID = %q, want %q", msg.UUID, eventID)
		}
		if msg.Metadata.Get("rider_id") != "7" {
			t.Errorf("metadata rider_id = %q, want 7", msg.Metadata.Get("rider_id"))
		}
		ev, err := UnmarshalInvalidation(msg.Payload)
		if err != nil {
			t.Fatalf("UnmarshalInvalidation() error = %v", err)
		}
		if ev.RiderID != 7 || ev.Reason != ReasonManual {
			t.Errorf("event = %+v, want rider 7 manual", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestPublisher_PublishReview(t *testing.T) {
	t.Parallel()

	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := bus.Subscriber.Subscribe(ctx, testTopic)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	pub := NewPublisher(bus.Publisher, testTopic, disabledBreaker(), nopLogger())

	if _, err := pub.PublishReview(ctx, &ReviewSubmitted{RiderID: 7}); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("PublishReview(invalid) = %v, want ErrInvalidEvent", err)
	}

	review := &ReviewSubmitted{ReviewID: 30, RideID: 4, RiderID: 7, DriverID: 2, Rating: 2}
	if _, err := pub.PublishReview(ctx, review); err != nil {
		t.Fatalf("PublishReview() error = %v", err)
	}

	select {
	case msg := <-messages:
		msg.Ack()
		ev, err := UnmarshalInvalidation(msg.Payload)
		if err != nil {
			t.Fatalf("UnmarshalInvalidation() error = %v", err)
		}
		if ev.ReviewID != 30 || ev.Reason != ReasonReviewSubmitted {
			t.Errorf("event = %+v, want review 30 reason review_submitted", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestPublisher_BreakerOpens(t *testing.T) {
	t.Parallel()

	failing := &failingPublisher{}
	pub := NewPublisher(failing, testTopic, config.BreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		Timeout:          time.Minute,
	}, nopLogger())

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := pub.PublishInvalidation(ctx, 1, ReasonManual); err == nil {
			t.Fatalf("publish %d succeeded, want error", i)
		}
	}

	_, err := pub.PublishInvalidation(ctx, 1, ReasonManual)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("publish after trip = %v, want ErrOpenState", err)
	}
	if failing.callCount() != 2 {
		t.Errorf("broker calls = %d, want 2", failing.callCount())
	}
	if pub.BreakerState() != "open" {
		t.Errorf("BreakerState() = %q, want open", pub.BreakerState())
	}
}

func TestPublisher_Closed(t *testing.T) {
	t.Parallel()

	failing := &failingPublisher{}
	pub := NewPublisher(failing, testTopic, disabledBreaker(), nopLogger())
	if pub.BreakerState() != "disabled" {
		t.Errorf("BreakerState() = %q, want disabled", pub.BreakerState())
	}

	_ = pub.Close()
	if _, err := pub.PublishInvalidation(context.Background(), 1, ReasonManual); !errors.Is(err, ErrPublisherClosed) {
		t.Errorf("publish after Close = %v, want ErrPublisherClosed", err)
	}
	if failing.callCount() != 0 {
		t.Errorf("broker calls = %d, want 0", failing.callCount())
	}
}
