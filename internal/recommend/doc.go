// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

// Package recommend ranks available drivers for a rider.
//
// Each rider gets an optional personal model learnt from that rider's own completed and
// reviewed rides. When no model exists, or the model yields no usable score, drivers
// are ranked by a deterministic cold-start heuristic instead.
//
// # Components
//
//   - FeatureExtractor: turns a ride+review pair, or a live driver candidate, into a
//     six-field FeatureVector.
//   - HistoryScorer: signed bonus and exclusion flag from the rider's past rides with a
//     specific driver.
//   - Trainer: fits an algorithms.Pipeline (min-max normalization + SDCA ridge
//     regression) and persists it through a ModelStore with bounded retries.
//   - Predictor: loads a rider's model and scores feature vectors, rejecting NaN/Inf.
//   - ColdStartRanker: rating, experience and history bonus heuristic.
//   - Engine: the public entry point that ties the above together.
//
// # Model Lifecycle
//
// Per rider the model is either absent (Untrained) or present (Trained). Training only
// happens through an explicit TrainModelForUser call; GetRecommendedDrivers never
// trains inline. InvalidateUserModel deletes the model so the next explicit training
// picks up new reviews.
//
// # Concurrency
//
// Writers (save and invalidate) for the same rider are serialized by a per-rider lock.
// Readers never take that lock: a reader that races a writer sees the old model, the
// new model or no model, and any load failure degrades to cold start.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, recommend.Dependencies{
//	    History:    db,
//	    Candidates: db,
//	    Store:      modelStore,
//	}, logger)
//	drivers, err := engine.GetRecommendedDrivers(ctx, riderID, 5)
package recommend
