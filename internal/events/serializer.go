// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package events

import (
	"fmt"

	"github.com/goccy/go-json"
)

// validatable is implemented by every event type.
type validatable interface {
	Validate() error
}

// Marshal validates event and encodes it as JSON.
func Marshal(event validatable) ([]byte, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// UnmarshalInvalidation decodes and validates a ModelInvalidated payload.
func UnmarshalInvalidation(data []byte) (*ModelInvalidated, error) {
	var event ModelInvalidated
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("%w: unmarshal invalidation: %v", ErrInvalidEvent, err)
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return &event, nil
}

// UnmarshalReview decodes and validates a ReviewSubmitted payload.
func UnmarshalReview(data []byte) (*ReviewSubmitted, error) {
	var event ReviewSubmitted
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("%w: unmarshal review: %v", ErrInvalidEvent, err)
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return &event, nil
}
