// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package algorithms

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	// ErrNoSamples is returned when fitting on an empty data set.
	ErrNoSamples = errors.New("no training samples")

	// ErrDimensionMismatch is returned when feature widths disagree.
	ErrDimensionMismatch = errors.New("feature dimension mismatch")

	// ErrNonFinite is returned when an input or fitted value is NaN or infinite.
	ErrNonFinite = errors.New("non-finite value")
)

// SDCAConfig contains configuration for the SDCA ridge regressor.
type SDCAConfig struct {
	// L2 is the ridge penalty. Must be positive.
	// Default: 0.01.
	L2 float64

	// MaxEpochs bounds the number of passes over the data.
	// Default: 200.
	MaxEpochs int

	// Tolerance stops training once the duality gap falls below it.
	// Default: 1e-7.
	Tolerance float64

	// Seed drives the per-epoch visiting order.
	// Default: 42.
	Seed int64
}

// DefaultSDCAConfig returns default SDCA configuration.
func DefaultSDCAConfig() SDCAConfig {
	return SDCAConfig{
		L2:        0.01,
		MaxEpochs: 200,
		Tolerance: 1e-7,
		Seed:      42,
	}
}

// Validate checks the configuration values.
func (c SDCAConfig) Validate() error {
	if c.L2 <= 0 || math.IsNaN(c.L2) || math.IsInf(c.L2, 0) {
		return fmt.Errorf("l2 must be positive and finite, got %f", c.L2)
	}
	if c.MaxEpochs < 1 {
		return fmt.Errorf("max_epochs must be at least 1, got %d", c.MaxEpochs)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance must be non-negative, got %f", c.Tolerance)
	}
	return nil
}

// SDCARegressor fits an L2-regularized linear regression by stochastic dual
// coordinate ascent.
//
// Primal objective over n samples (x_i with a trailing constant 1 for the bias):
//
//	P(w) = 1/n * sum 1/2 (w.x_i - y_i)^2 + L2/2 * |w|^2
//
// Each dual variable a_i is updated in closed form for squared loss:
//
//	da = (y_i - w.x_i - a_i) / (1 + |x_i|^2 / (L2 * n))
//	a_i += da;  w += da / (L2 * n) * x_i
type SDCARegressor struct {
	config SDCAConfig

	// epochs and gap describe the last fit.
	epochs int
	gap    float64
}

// NewSDCARegressor creates a regressor, filling zero config values with defaults.
func NewSDCARegressor(cfg SDCAConfig) *SDCARegressor {
	def := DefaultSDCAConfig()
	if cfg.L2 == 0 {
		cfg.L2 = def.L2
	}
	if cfg.MaxEpochs == 0 {
		cfg.MaxEpochs = def.MaxEpochs
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = def.Tolerance
	}
	return &SDCARegressor{config: cfg}
}

// Epochs returns the number of epochs run by the last Fit.
func (s *SDCARegressor) Epochs() int {
	return s.epochs
}

// DualityGap returns the final duality gap of the last Fit.
func (s *SDCARegressor) DualityGap() float64 {
	return s.gap
}

// Fit trains on x (n rows of equal width) against labels y.
func (s *SDCARegressor) Fit(ctx context.Context, x [][]float64, y []float64) (LinearModel, error) {
	if err := s.config.Validate(); err != nil {
		return LinearModel{}, err
	}
	n := len(x)
	if n == 0 {
		return LinearModel{}, ErrNoSamples
	}
	if len(y) != n {
		return LinearModel{}, fmt.Errorf("%d rows but %d labels: %w", n, len(y), ErrDimensionMismatch)
	}

	d := len(x[0])
	rows := make([][]float64, n)
	sqNorms := make([]float64, n)
	for i := range x {
		if len(x[i]) != d {
			return LinearModel{}, fmt.Errorf("row %d has %d features, want %d: %w", i, len(x[i]), d, ErrDimensionMismatch)
		}
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return LinearModel{}, fmt.Errorf("label %d: %w", i, ErrNonFinite)
		}
		row := make([]float64, d+1)
		copy(row, x[i])
		row[d] = 1
		rows[i] = row
		sqNorms[i] = dot(row, row)
	}

	lambdaN := s.config.L2 * float64(n)
	w := make([]float64, d+1)
	alpha := make([]float64, n)
	rng := rand.New(rand.NewSource(s.config.Seed)) //nolint:gosec // deterministic visiting order, not security sensitive

	s.epochs = 0
	s.gap = math.Inf(1)
	for epoch := 0; epoch < s.config.MaxEpochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return LinearModel{}, fmt.Errorf("sdca fit canceled at epoch %d: %w", epoch, err)
		}

		for _, i := range rng.Perm(n) {
			residual := y[i] - dot(w, rows[i])
			delta := (residual - alpha[i]) / (1 + sqNorms[i]/lambdaN)
			alpha[i] += delta
			axpy(delta/lambdaN, rows[i], w)
		}

		s.epochs = epoch + 1
		s.gap = dualityGap(rows, y, alpha, w, s.config.L2)
		if s.gap <= s.config.Tolerance {
			break
		}
	}

	model := LinearModel{
		Weights: append([]float64(nil), w[:d]...),
		Bias:    w[d],
	}
	if err := model.Validate(); err != nil {
		return LinearModel{}, err
	}
	return model, nil
}

// dualityGap returns P(w) - D(alpha) for squared loss.
func dualityGap(rows [][]float64, y, alpha, w []float64, l2 float64) float64 {
	n := float64(len(rows))
	var primalLoss, dualLoss float64
	for i, row := range rows {
		r := dot(w, row) - y[i]
		primalLoss += 0.5 * r * r
		dualLoss += alpha[i]*y[i] - 0.5*alpha[i]*alpha[i]
	}
	reg := 0.5 * l2 * dot(w, w)
	primal := primalLoss/n + reg
	dual := dualLoss/n - reg
	return primal - dual
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// axpy computes y += a*x in place.
func axpy(a float64, x, y []float64) {
	for i := range x {
		y[i] += a * x[i]
	}
}
