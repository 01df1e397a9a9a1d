// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/ridewise/internal/validation"
)

// Invalidation reasons.
const (
	ReasonReviewSubmitted = "review_submitted"
	ReasonManual          = "manual"
)

// ModelInvalidated asks the engine to drop a rider's cached model.
type ModelInvalidated struct {
	EventID    string    `json:"event_id" validate:"required,uuid"`
	RiderID    int64     `json:"rider_id" validate:"required,gt=0"`
	Reason     string    `json:"reason" validate:"required,oneof=review_submitted manual"`
	OccurredAt time.Time `json:"occurred_at" validate:"required"`

	// ReviewID links the event to the review that caused it, when there is one.
	ReviewID int64 `json:"review_id,omitempty"`
}

// NewModelInvalidated creates an event with a fresh ID.
func NewModelInvalidated(riderID int64, reason string) *ModelInvalidated {
	return &ModelInvalidated{
		EventID:    uuid.New().String(),
		RiderID:    riderID,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
}

// Validate checks required fields.
func (e *ModelInvalidated) Validate() error {
	if verr := validation.ValidateStruct(e); verr != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEvent, verr.Error())
	}
	return nil
}

// ReviewSubmitted is emitted by the review workflow after a review is stored.
type ReviewSubmitted struct {
	ReviewID  int64     `json:"review_id" validate:"required,gt=0"`
	RideID    int64     `json:"ride_id" validate:"required,gt=0"`
	RiderID   int64     `json:"rider_id" validate:"required,gt=0"`
	DriverID  int64     `json:"driver_id" validate:"required,gt=0"`
	Rating    float64   `json:"rating" validate:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks required fields and the rating range.
func (e *ReviewSubmitted) Validate() error {
	if verr := validation.ValidateStruct(e); verr != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEvent, verr.Error())
	}
	return nil
}

// Invalidation returns the ModelInvalidated event a review triggers.
func (e *ReviewSubmitted) Invalidation() *ModelInvalidated {
	ev := NewModelInvalidated(e.RiderID, ReasonReviewSubmitted)
	ev.ReviewID = e.ReviewID
	return ev
}
