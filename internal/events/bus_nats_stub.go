// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

//go:build !nats

package events

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/tomtom215/ridewise/internal/config"
)

// newNATSBus returns an error when NATS support is not compiled in.
// Build with -tags=nats to enable the JetStream transport.
func newNATSBus(_ *config.NATSConfig, _ string, _ watermill.LoggerAdapter) (*Bus, error) {
	return nil, fmt.Errorf("NATS transport not available: build with -tags=nats")
}
