// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

// Package storage persists one trained model per rider.
//
// The package has two layers:
//
//   - KV: an atomic key-value blob store. Backends are FileKV (write to a temp file, then
//     rename), BadgerKV (dgraph-io/badger/v4 transactions) and RedisKV (redis/go-redis/v9).
//     BreakerKV wraps any backend with a sony/gobreaker/v2 circuit breaker.
//   - ModelStore: Exists/Load/Save/Invalidate of algorithms.Pipeline values on top of a KV.
//
// # Storage Format
//
// A model is gob-encoded, checksummed with SHA-256 and gzip-compressed. The compressed
// bytes are stored with their metadata in a gob envelope. Load verifies the checksum,
// the pipeline version and the parameter values, and reports ErrCorruptModel on any
// mismatch so callers can fall back instead of scoring with a damaged model.
//
// # Concurrency
//
// Put and Delete are atomic per key in every backend, so a reader sees either the old
// model, the new model or no model. Serializing writers for the same rider is the
// caller's job.
package storage
