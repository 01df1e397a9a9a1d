// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package recommend

import (
	"math"
	"sort"
)

const (
	coldStartRatingWeight = 0.2
	coldStartRideScale    = 100.0
)

// ColdStartRanker ranks drivers on rating, experience and history bonus.
type ColdStartRanker struct {
	history HistoryScorer
}

// ColdStartScore is the heuristic score before the history bonus.
func ColdStartScore(c *DriverCandidate) float64 {
	return c.Rating()*coldStartRatingWeight + math.Min(float64(c.TotalRides)/coldStartRideScale, 1.0)
}

// Rank scores every candidate not excluded by history and returns the top n.
func (r ColdStartRanker) Rank(riderID int64, candidates []DriverCandidate, history []RideRecord, n int) []DriverSummary {
	out := make([]DriverSummary, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if r.history.ShouldExclude(riderID, c.DriverID, history) {
			continue
		}
		bonus := r.history.ComputeBonus(riderID, c.DriverID, history)
		out = append(out, newSummary(c, ColdStartScore(c)+bonus, bonus, StrategyColdStart))
	}
	return topN(out, n)
}

func newSummary(c *DriverCandidate, score, bonus float64, s Strategy) DriverSummary {
	return DriverSummary{
		DriverID:      c.DriverID,
		AverageRating: c.AverageRating,
		TotalRides:    c.TotalRides,
		Score:         score,
		HistoryBonus:  bonus,
		Strategy:      s,
	}
}

// topN sorts by score descending, breaking ties by ascending driver ID, and truncates.
func topN(items []DriverSummary, n int) []DriverSummary {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].DriverID < items[j].DriverID
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}
