// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned by KV.Get when the key is absent.
	ErrKeyNotFound = errors.New("key not found")

	// ErrModelNotFound is returned by ModelStore.Load when the rider has no model.
	ErrModelNotFound = errors.New("model not found")

	// ErrCorruptModel is returned when a stored model fails integrity checks.
	ErrCorruptModel = errors.New("corrupt model")

	// ErrInvalidKey is returned for keys a backend cannot address safely.
	ErrInvalidKey = errors.New("invalid key")
)

// KV is an atomic key-value blob store.
type KV interface {
	// Has reports whether key is present.
	Has(ctx context.Context, key string) (bool, error)

	// Get returns the value for key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value atomically.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Name identifies the backend in logs and metrics.
	Name() string

	Close() error
}

// RiderKey returns the KV key for a rider's model.
func RiderKey(riderID int64) string {
	return fmt.Sprintf("rider-%d", riderID)
}

// validateKey accepts lowercase letters, digits, '-' and '_'.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}
