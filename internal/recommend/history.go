// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package recommend

import "math"

// History bonus constants.
const (
	cancelPenalty      = -0.3
	lowRatingPenalty   = -0.3
	excellentRating    = 4.5
	goodRating         = 4.0
	poorRating         = 3.0
	excellentBase      = 0.5
	excellentStep      = 0.1
	excellentExtraCap  = 0.5
	goodBase           = 0.2
	goodStep           = 0.05
	goodExtraCap       = 0.3
	maxHistoryBonus    = excellentBase + excellentExtraCap
	excludeBelowRating = excellentRating
)

// HistoryScorer derives a per-driver bonus and exclusion flag from a rider's ride history.
// It is stateless.
type HistoryScorer struct{}

// driverHistory summarizes one rider's rides with one driver.
type driverHistory struct {
	cancelled     bool
	reviewedCount int
	latest        *ReviewRecord
	latestRide    *RideRecord
}

func summarize(riderID, driverID int64, history []RideRecord) driverHistory {
	var h driverHistory
	for i := range history {
		r := &history[i]
		if r.RiderID != riderID || r.DriverID != driverID {
			continue
		}
		if r.Status == RideStatusCancelled {
			h.cancelled = true
			continue
		}
		if r.Status != RideStatusCompleted {
			continue
		}
		rv := r.ReviewBy(riderID)
		if rv == nil {
			continue
		}
		h.reviewedCount++
		if h.latestRide == nil || newerRide(r, h.latestRide) {
			h.latestRide = r
			h.latest = rv
		}
	}
	return h
}

// newerRide orders rides by occurrence time, then by ride ID.
func newerRide(a, b *RideRecord) bool {
	at, bt := a.OccurredAt(), b.OccurredAt()
	if at.Equal(bt) {
		return a.RideID > b.RideID
	}
	return at.After(bt)
}

// ComputeBonus returns the signed score adjustment for driverID.
func (HistoryScorer) ComputeBonus(riderID, driverID int64, history []RideRecord) float64 {
	h := summarize(riderID, driverID, history)
	if h.cancelled {
		return cancelPenalty
	}
	if h.latest == nil {
		return 0
	}

	extra := float64(h.reviewedCount - 1)
	rating := h.latest.Rating
	switch {
	case rating >= excellentRating:
		return excellentBase + math.Min(extra*excellentStep, excellentExtraCap)
	case rating >= goodRating:
		return goodBase + math.Min(extra*goodStep, goodExtraCap)
	case rating < poorRating:
		return lowRatingPenalty
	default:
		return 0
	}
}

// ShouldExclude reports whether the most recent completed, reviewed ride with driverID
// was rated below 4.5. Drivers with no such ride are never excluded.
func (HistoryScorer) ShouldExclude(riderID, driverID int64, history []RideRecord) bool {
	h := summarize(riderID, driverID, history)
	return h.latest != nil && h.latest.Rating < excludeBelowRating
}
