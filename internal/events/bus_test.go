// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package events

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ridewise/internal/config"
)

func TestNewBus_Memory(t *testing.T) {
	t.Parallel()

	bus, err := NewBus(&config.EventsConfig{Transport: TransportMemory, BufferSize: 8}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	if bus.Transport != TransportMemory {
		t.Errorf("Transport = %q, want memory", bus.Transport)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestNewBus_UnknownTransport(t *testing.T) {
	t.Parallel()

	_, err := NewBus(&config.EventsConfig{Transport: "sqs"}, zerolog.Nop())
	if !errors.Is(err, ErrUnknownTransport) {
		t.Errorf("NewBus(sqs) = %v, want ErrUnknownTransport", err)
	}
}
