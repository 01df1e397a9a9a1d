// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package algorithms

import (
	"fmt"
	"math"
)

// MinMaxNormalizer rescales feature columns to [0,1] using training-set bounds.
type MinMaxNormalizer struct {
	// Mins holds the smallest value seen per column.
	Mins []float64

	// Maxs holds the largest value seen per column.
	Maxs []float64
}

// FitMinMax computes per-column bounds over rows. All rows must have the same width.
func FitMinMax(rows [][]float64) (MinMaxNormalizer, error) {
	if len(rows) == 0 {
		return MinMaxNormalizer{}, ErrNoSamples
	}

	width := len(rows[0])
	mins := make([]float64, width)
	maxs := make([]float64, width)
	for j := 0; j < width; j++ {
		mins[j] = math.Inf(1)
		maxs[j] = math.Inf(-1)
	}

	for i, row := range rows {
		if len(row) != width {
			return MinMaxNormalizer{}, fmt.Errorf("row %d has %d features, want %d: %w", i, len(row), width, ErrDimensionMismatch)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return MinMaxNormalizer{}, fmt.Errorf("row %d column %d: %w", i, j, ErrNonFinite)
			}
			if v < mins[j] {
				mins[j] = v
			}
			if v > maxs[j] {
				maxs[j] = v
			}
		}
	}

	return MinMaxNormalizer{Mins: mins, Maxs: maxs}, nil
}

// Width returns the number of columns the normalizer was fitted on.
func (n MinMaxNormalizer) Width() int {
	return len(n.Mins)
}

// Transform returns a normalized copy of x. Values outside the fitted bounds are not clamped.
func (n MinMaxNormalizer) Transform(x []float64) ([]float64, error) {
	if len(x) != len(n.Mins) {
		return nil, fmt.Errorf("got %d features, want %d: %w", len(x), len(n.Mins), ErrDimensionMismatch)
	}

	out := make([]float64, len(x))
	for j, v := range x {
		span := n.Maxs[j] - n.Mins[j]
		if span == 0 {
			out[j] = 0
			continue
		}
		out[j] = (v - n.Mins[j]) / span
	}
	return out, nil
}
