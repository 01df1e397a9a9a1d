// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/ridewise/internal/recommend/algorithms"
)

// RideStatus is the lifecycle state of a ride.
type RideStatus string

const (
	RideStatusRequested RideStatus = "requested"
	RideStatusAccepted  RideStatus = "accepted"
	RideStatusActive    RideStatus = "active"
	RideStatusCompleted RideStatus = "completed"
	RideStatusCancelled RideStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s RideStatus) Valid() bool {
	switch s {
	case RideStatusRequested, RideStatusAccepted, RideStatusActive, RideStatusCompleted, RideStatusCancelled:
		return true
	}
	return false
}

// DriverStatusActive is the candidate status eligible for recommendation.
const DriverStatusActive = "active"

// DriverStats is a snapshot of a driver's aggregate rating and ride count.
type DriverStats struct {
	// AverageRating is nil for drivers without reviews.
	AverageRating *float64 `json:"average_rating,omitempty"`

	// TotalRides is the number of rides the driver has completed.
	TotalRides int `json:"total_rides"`
}

// RideRecord is a ride owned by the ride subsystem. Read-only here.
type RideRecord struct {
	RideID   int64      `json:"ride_id"`
	RiderID  int64      `json:"rider_id"`
	DriverID int64      `json:"driver_id"`
	Status   RideStatus `json:"status"`

	// FareEstimate is the quoted fare. Nil when no quote was recorded.
	FareEstimate *float64 `json:"fare_estimate,omitempty"`

	// FareFinal is the charged fare. Nil until the ride is settled.
	FareFinal *float64 `json:"fare_final,omitempty"`

	DistanceKm  *float64 `json:"distance_km,omitempty"`
	DurationMin *float64 `json:"duration_min,omitempty"`

	RequestedAt time.Time  `json:"requested_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Driver holds the driver's aggregate stats when the provider joins them.
	Driver *DriverStats `json:"driver,omitempty"`

	// Reviews left on this ride.
	Reviews []ReviewRecord `json:"reviews,omitempty"`
}

// ReviewRecord is a rider's rating of a driver for one ride.
type ReviewRecord struct {
	ReviewID  int64     `json:"review_id"`
	RideID    int64     `json:"ride_id"`
	RiderID   int64     `json:"rider_id"`
	DriverID  int64     `json:"driver_id"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// OccurredAt returns CompletedAt when set, otherwise RequestedAt.
func (r *RideRecord) OccurredAt() time.Time {
	if r.CompletedAt != nil {
		return *r.CompletedAt
	}
	return r.RequestedAt
}

// ReviewBy returns the review riderID left for this ride's driver, or nil.
// When several exist the most recently created one wins.
func (r *RideRecord) ReviewBy(riderID int64) *ReviewRecord {
	var found *ReviewRecord
	for i := range r.Reviews {
		rv := &r.Reviews[i]
		if rv.RiderID != riderID || rv.DriverID != r.DriverID {
			continue
		}
		if found == nil || rv.CreatedAt.After(found.CreatedAt) {
			found = rv
		}
	}
	return found
}

// DriverCandidate is an eligible driver snapshot for one recommendation call.
type DriverCandidate struct {
	DriverID         int64    `json:"driver_id"`
	AverageRating    *float64 `json:"average_rating,omitempty"`
	TotalRides       int      `json:"total_rides"`
	Status           string   `json:"status"`
	HasActiveVehicle bool     `json:"has_active_vehicle"`
}

// Rating returns AverageRating or 0 when unrated.
func (c *DriverCandidate) Rating() float64 {
	if c.AverageRating == nil {
		return 0
	}
	return *c.AverageRating
}

// Strategy names the scoring path that produced a recommendation.
type Strategy string

const (
	StrategyModel     Strategy = "model"
	StrategyColdStart Strategy = "cold_start"
)

// DriverSummary is one ranked driver in a recommendation response.
type DriverSummary struct {
	DriverID      int64    `json:"driver_id"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	TotalRides    int      `json:"total_rides"`

	// Score is the final ranking score including HistoryBonus.
	Score float64 `json:"score"`

	// HistoryBonus is the part of Score contributed by past rides with this driver.
	HistoryBonus float64 `json:"history_bonus"`

	Strategy Strategy `json:"strategy"`
}

// RiderAverages are a rider's historical ride averages used for prediction features.
type RiderAverages struct {
	Price       float64 `json:"price"`
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`
}

// RideHistoryProvider returns a rider's rides with their nested reviews.
type RideHistoryProvider interface {
	GetRideHistory(ctx context.Context, riderID int64) ([]RideRecord, error)
}

// CandidateSource returns drivers that are active, have an active vehicle and are not
// on an active, requested or accepted ride.
type CandidateSource interface {
	GetEligibleDrivers(ctx context.Context) ([]DriverCandidate, error)
}

// ModelStore persists one trained pipeline per rider.
type ModelStore interface {
	Exists(ctx context.Context, riderID int64) (bool, error)

	// Load returns an error wrapping a not-found sentinel when absent.
	Load(ctx context.Context, riderID int64) (*algorithms.Pipeline, error)

	// Save overwrites any existing model.
	Save(ctx context.Context, riderID int64, p *algorithms.Pipeline) error

	// Invalidate deletes the model. Absent models are not an error.
	Invalidate(ctx context.Context, riderID int64) error
}

// Stats is a point-in-time snapshot of engine counters.
type Stats struct {
	Requests           int64 `json:"requests"`
	ModelResponses     int64 `json:"model_responses"`
	ColdStartResponses int64 `json:"cold_start_responses"`
	EmptyResponses     int64 `json:"empty_responses"`
	InvalidScores      int64 `json:"invalid_scores"`
	ModelLoadFailures  int64 `json:"model_load_failures"`
	TrainingsSucceeded int64 `json:"trainings_succeeded"`
	TrainingsSkipped   int64 `json:"trainings_skipped"`
	TrainingsFailed    int64 `json:"trainings_failed"`
	Invalidations      int64 `json:"invalidations"`
}
