// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/tomtom215/ridewise/internal/config"
)

const testTopic = "recommend.model.invalidate"

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	bus := NewMemoryBus(16, watermill.NopLogger{})
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

func disabledBreaker() config.BreakerConfig {
	return config.BreakerConfig{Enabled: false}
}

// recordingInvalidator records rider IDs and fails for riders in failFor.
type recordingInvalidator struct {
	mu      sync.Mutex
	calls   []int64
	failFor map[int64]bool
	seen    chan int64
}

func newRecordingInvalidator() *recordingInvalidator {
	return &recordingInvalidator{failFor: map[int64]bool{}, seen: make(chan int64, 16)}
}

func (r *recordingInvalidator) InvalidateUserModel(_ context.Context, riderID int64) error {
	r.mu.Lock()
	r.calls = append(r.calls, riderID)
	fail := r.failFor[riderID]
	r.mu.Unlock()

	r.seen <- riderID
	if fail {
		return errors.New("store unavailable")
	}
	return nil
}

func (r *recordingInvalidator) callsFor(riderID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, id := range r.calls {
		if id == riderID {
			n++
		}
	}
	return n
}

func waitFor(t *testing.T, ch <-chan int64, want int64) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case got := <-ch:
			if got == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for rider %d", want)
		}
	}
}

// failingPublisher is a watermill publisher that always fails.
type failingPublisher struct {
	mu    sync.Mutex
	calls int
}

func (f *failingPublisher) Publish(string, ...*message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return errors.New("broker unreachable")
}

func (f *failingPublisher) Close() error { return nil }

func (f *failingPublisher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeReader serves queued kafka messages and blocks when empty.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
	fetchErr  error
	drained   chan struct{}
	closed    bool
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	return &fakeReader{queue: msgs, drained: make(chan struct{})}
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	if f.fetchErr != nil {
		err := f.fetchErr
		f.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(f.queue) > 0 {
		m := f.queue[0]
		f.queue = f.queue[1:]
		f.mu.Unlock()
		return m, nil
	}
	f.mu.Unlock()

	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	if len(f.queue) == 0 {
		select {
		case <-f.drained:
		default:
			close(f.drained)
		}
	}
	return nil
}

func (f *fakeReader) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeReader) commits() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.committed...)
}

// fakeReviewPublisher records reviews and fails for riders in failFor.
type fakeReviewPublisher struct {
	mu      sync.Mutex
	reviews []int64
	failFor map[int64]bool
}

func (f *fakeReviewPublisher) PublishReview(_ context.Context, review *ReviewSubmitted) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviews = append(f.reviews, review.ReviewID)
	if f.failFor[review.RiderID] {
		return "", errors.New("breaker open")
	}
	return "evt-" + review.Invalidation().EventID, nil
}

func (f *fakeReviewPublisher) published() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.reviews...)
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}
