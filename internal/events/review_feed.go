// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/tomtom215/ridewise/internal/config"
	"github.com/tomtom215/ridewise/internal/metrics"
)

// MessageReader is the subset of *kafka.Reader used by ReviewFeed.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ReviewPublisher publishes the invalidation for a submitted review.
type ReviewPublisher interface {
	PublishReview(ctx context.Context, review *ReviewSubmitted) (string, error)
}

// NewKafkaReader creates a consumer-group reader for the review topic.
// Offsets are committed explicitly by ReviewFeed.
func NewKafkaReader(cfg *config.KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       1 << 20,
		MaxWait:        500 * time.Millisecond,
		CommitInterval: 0,
	})
}

// ReviewFeed turns ReviewSubmitted messages from Kafka into invalidation events.
// It is a suture.Service. Each message is committed after one publish attempt.
type ReviewFeed struct {
	reader    MessageReader
	publisher ReviewPublisher
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewReviewFeed creates a feed reading from reader.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReviewFeed(reader MessageReader, publisher ReviewPublisher, logger zerolog.Logger) *ReviewFeed {
	return &ReviewFeed{
		reader:    reader,
		publisher: publisher,
		timeout:   defaultHandleTimeout,
		logger:    logger.With().Str("service", "review-feed").Logger(),
	}
}

// Serve implements suture.Service.
func (f *ReviewFeed) Serve(ctx context.Context) error {
	f.logger.Info().Msg("review feed started")

	for {
		m, err := f.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("fetch review message: %w", err)
		}

		f.handle(ctx, m)

		if err := f.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("commit review offset %d: %w", m.Offset, err)
		}
	}
}

//nolint:gocritic // kafka.Message is passed by value by the kafka-go API
func (f *ReviewFeed) handle(ctx context.Context, m kafka.Message) {
	review, err := UnmarshalReview(m.Value)
	if err != nil {
		metrics.RecordReviewFeedMessage("malformed")
		f.logger.Warn().Err(err).
			Int("partition", m.Partition).
			Int64("offset", m.Offset).
			Msg("Skipping malformed review message")
		return
	}

	pctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	eventID, err := f.publisher.PublishReview(pctx, review)
	if err != nil {
		metrics.RecordReviewFeedMessage("failed")
		f.logger.Warn().Err(err).
			Int64("review_id", review.ReviewID).
			Int64("rider_id", review.RiderID).
			Msg("Failed to publish invalidation for review")
		return
	}

	metrics.RecordReviewFeedMessage("forwarded")
	f.logger.Debug().
		Str("event_id", eventID).
		Int64("review_id", review.ReviewID).
		Int64("rider_id", review.RiderID).
		Msg("Forwarded review as model invalidation")
}

// Close closes the reader.
func (f *ReviewFeed) Close() error {
	return f.reader.Close()
}

// String implements fmt.Stringer for suture logging.
func (f *ReviewFeed) String() string {
	return "review-feed"
}
