// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package algorithms

import (
	"context"
	"fmt"
	"math"
	"time"
)

// PipelineVersion is bumped whenever the Pipeline layout changes incompatibly.
const PipelineVersion = 1

// LinearModel holds fitted regression weights.
type LinearModel struct {
	Weights []float64
	Bias    float64
}

// Predict returns w.x + b. x must already be normalized.
func (m LinearModel) Predict(x []float64) (float64, error) {
	if len(x) != len(m.Weights) {
		return 0, fmt.Errorf("got %d features, want %d: %w", len(x), len(m.Weights), ErrDimensionMismatch)
	}
	return dot(m.Weights, x) + m.Bias, nil
}

// Validate reports an error if any parameter is NaN or infinite.
func (m LinearModel) Validate() error {
	for i, w := range m.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("weight %d: %w", i, ErrNonFinite)
		}
	}
	if math.IsNaN(m.Bias) || math.IsInf(m.Bias, 0) {
		return fmt.Errorf("bias: %w", ErrNonFinite)
	}
	return nil
}

// Pipeline is a fitted normalizer followed by a linear model.
type Pipeline struct {
	// Version is the layout version the pipeline was written with.
	Version int

	Normalizer MinMaxNormalizer
	Model      LinearModel

	// Samples is the number of training examples.
	Samples int

	// Epochs is the number of SDCA passes used.
	Epochs int

	TrainedAt time.Time
}

// FitPipeline fits min-max bounds on rows, then the SDCA regressor on the normalized rows.
func FitPipeline(ctx context.Context, rows [][]float64, labels []float64, cfg SDCAConfig) (*Pipeline, error) {
	norm, err := FitMinMax(rows)
	if err != nil {
		return nil, fmt.Errorf("fit normalizer: %w", err)
	}

	scaled := make([][]float64, len(rows))
	for i, row := range rows {
		scaled[i], err = norm.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("normalize row %d: %w", i, err)
		}
	}

	reg := NewSDCARegressor(cfg)
	model, err := reg.Fit(ctx, scaled, labels)
	if err != nil {
		return nil, fmt.Errorf("fit regressor: %w", err)
	}

	return &Pipeline{
		Version:    PipelineVersion,
		Normalizer: norm,
		Model:      model,
		Samples:    len(rows),
		Epochs:     reg.Epochs(),
		TrainedAt:  time.Now().UTC(),
	}, nil
}

// Predict normalizes x and applies the linear model.
func (p *Pipeline) Predict(x []float64) (float64, error) {
	scaled, err := p.Normalizer.Transform(x)
	if err != nil {
		return 0, err
	}
	return p.Model.Predict(scaled)
}

// Validate checks that the pipeline stages agree on width and hold finite parameters.
func (p *Pipeline) Validate() error {
	if p == nil {
		return fmt.Errorf("nil pipeline")
	}
	if p.Version != PipelineVersion {
		return fmt.Errorf("unsupported pipeline version %d", p.Version)
	}
	if len(p.Normalizer.Mins) != len(p.Normalizer.Maxs) {
		return fmt.Errorf("normalizer bounds have %d mins and %d maxs: %w",
			len(p.Normalizer.Mins), len(p.Normalizer.Maxs), ErrDimensionMismatch)
	}
	if p.Normalizer.Width() != len(p.Model.Weights) {
		return fmt.Errorf("normalizer width %d, model width %d: %w",
			p.Normalizer.Width(), len(p.Model.Weights), ErrDimensionMismatch)
	}
	return p.Model.Validate()
}
