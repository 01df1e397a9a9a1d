// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

// Package algorithms implements the per-rider regression model used to score drivers.
//
// A model is a Pipeline of two stages fitted on a rider's own training examples:
//
//   - MinMaxNormalizer: rescales each feature column to [0,1] using the bounds observed
//     during training. A constant column maps to 0.
//   - SDCARegressor: ridge regression (squared loss with an L2 penalty) fitted by
//     stochastic dual coordinate ascent (Shalev-Shwartz & Zhang, 2013).
//
// # Determinism
//
// The coordinate visiting order is a seeded permutation per epoch, so fitting the same
// examples with the same Seed always yields the same weights. A Pipeline is a plain
// struct of exported fields and round-trips through encoding/gob without loss.
//
// # Usage
//
//	p, err := algorithms.FitPipeline(ctx, rows, labels, algorithms.DefaultSDCAConfig())
//	if err != nil {
//	    return err
//	}
//	score, err := p.Predict(features)
package algorithms
