// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package events

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/tomtom215/ridewise/internal/config"
	"github.com/tomtom215/ridewise/internal/logging"
)

// Transport names accepted by NewBus.
const (
	TransportMemory = "memory"
	TransportNATS   = "nats"
)

// Bus pairs a Watermill publisher and subscriber for one transport.
type Bus struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
	Transport  string

	closers   []io.Closer
	closeOnce sync.Once
	closeErr  error
}

// NewBus creates the bus selected by cfg.Transport.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBus(cfg *config.EventsConfig, logger zerolog.Logger) (*Bus, error) {
	wmLogger := WatermillLogger(logger)

	switch cfg.Transport {
	case TransportMemory, "":
		return NewMemoryBus(cfg.BufferSize, wmLogger), nil
	case TransportNATS:
		return newNATSBus(&cfg.NATS, cfg.InvalidationTopic, wmLogger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, cfg.Transport)
	}
}

// NewMemoryBus creates an in-process bus on a Watermill gochannel.
// Messages published before a subscriber exists are dropped.
func NewMemoryBus(bufferSize int64, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: bufferSize,
		Persistent:          false,
	}, logger)

	return &Bus{
		Publisher:  ch,
		Subscriber: ch,
		Transport:  TransportMemory,
		closers:    []io.Closer{ch},
	}
}

// Close closes the transport. Safe to call more than once.
func (b *Bus) Close() error {
	b.closeOnce.Do(func() {
		var errs []error
		for _, c := range b.closers {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		b.closeErr = errors.Join(errs...)
	})
	return b.closeErr
}

// WatermillLogger adapts a zerolog logger to Watermill's logger interface.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func WatermillLogger(logger zerolog.Logger) watermill.LoggerAdapter {
	return watermill.NewSlogLogger(logging.NewSlogLogger(logger))
}
