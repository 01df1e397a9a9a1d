// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package recommend

import (
	"fmt"
	"math"

	"github.com/tomtom215/ridewise/internal/recommend/algorithms"
)

// Predictor scores feature vectors with a trained pipeline.
type Predictor struct{}

// Score returns the pipeline output for fv. NaN or infinite output, and any
// pipeline failure, is reported as ErrInvalidScore.
func (Predictor) Score(p *algorithms.Pipeline, fv FeatureVector) (float64, error) {
	if p == nil {
		return 0, fmt.Errorf("%w: nil model", ErrInvalidScore)
	}
	values := fv.Values()
	score, err := p.Predict(values[:])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidScore, err)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidScore, score)
	}
	return score, nil
}
