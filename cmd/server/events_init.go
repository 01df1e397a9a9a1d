// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ridewise/internal/config"
	"github.com/tomtom215/ridewise/internal/events"
	"github.com/tomtom215/ridewise/internal/supervisor"
)

// EventComponents holds the event bus and the services built on it.
type EventComponents struct {
	Bus       *events.Bus
	Publisher *events.Publisher
	Consumer  *events.InvalidationConsumer

	// Feed is nil unless the Kafka review feed is enabled.
	Feed *events.ReviewFeed
}

// initEvents creates the bus, the invalidation publisher, the consumer that
// applies invalidations to target, and the optional Kafka review feed.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initEvents(cfg *config.EventsConfig, target events.ModelInvalidator, logger zerolog.Logger) (*EventComponents, error) {
	bus, err := events.NewBus(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create event bus: %w", err)
	}

	components := &EventComponents{
		Bus:       bus,
		Publisher: events.NewPublisher(bus.Publisher, cfg.InvalidationTopic, cfg.PublishBreaker, logger),
		Consumer:  events.NewInvalidationConsumer(bus.Subscriber, cfg.InvalidationTopic, target, logger),
	}

	if cfg.Kafka.Enabled {
		components.Feed = events.NewReviewFeed(events.NewKafkaReader(&cfg.Kafka), components.Publisher, logger)
		logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.Topic).
			Str("group_id", cfg.Kafka.GroupID).
			Msg("Kafka review feed enabled")
	}

	logger.Info().
		Str("transport", bus.Transport).
		Str("topic", cfg.InvalidationTopic).
		Bool("publish_breaker", cfg.PublishBreaker.Enabled).
		Msg("Event bus initialized")

	return components, nil
}

// addToTree registers the consumer and feed with the messaging layer.
func (c *EventComponents) addToTree(tree *supervisor.SupervisorTree) error {
	if _, err := tree.Add(supervisor.LayerMessaging, c.Consumer); err != nil {
		return err
	}
	if c.Feed != nil {
		if _, err := tree.Add(supervisor.LayerMessaging, c.Feed); err != nil {
			return err
		}
	}
	return nil
}

// Close stops publishing and releases the feed reader and transport.
func (c *EventComponents) Close() error {
	var errs []error
	if err := c.Publisher.Close(); err != nil {
		errs = append(errs, err)
	}
	if c.Feed != nil {
		if err := c.Feed.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close review feed: %w", err))
		}
	}
	if err := c.Bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close event bus: %w", err))
	}
	return errors.Join(errs...)
}
