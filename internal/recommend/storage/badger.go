// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

const badgerKeyPrefix = "model/"

// BadgerConfig holds configuration for BadgerKV.
type BadgerConfig struct {
	// Path is the badger data directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in memory.
	InMemory bool

	// SyncWrites fsyncs every write transaction.
	// Default: true.
	SyncWrites bool
}

// BadgerKV is a KV backed by an embedded badger database.
type BadgerKV struct {
	db     *badger.DB
	mu     sync.RWMutex
	closed bool
}

// NewBadgerKV opens (or creates) a badger database.
func NewBadgerKV(cfg BadgerConfig) (*BadgerKV, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("badger path is required")
		}
		opts = badger.DefaultOptions(cfg.Path).WithSyncWrites(cfg.SyncWrites)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerKV{db: db}, nil
}

func (b *BadgerKV) key(key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return []byte(badgerKeyPrefix + key), nil
}

func (b *BadgerKV) checkOpen() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("badger store is closed")
	}
	return nil
}

// Has implements KV.
func (b *BadgerKV) Has(ctx context.Context, key string) (bool, error) {
	_, err := b.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Get implements KV.
func (b *BadgerKV) Get(_ context.Context, key string) ([]byte, error) {
	k, err := b.key(key)
	if err != nil {
		return nil, err
	}
	if err := b.checkOpen(); err != nil {
		return nil, err
	}

	var value []byte
	err = b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger get %s: %w", key, err)
	}
	return value, nil
}

// Put implements KV.
func (b *BadgerKV) Put(_ context.Context, key string, value []byte) error {
	k, err := b.key(key)
	if err != nil {
		return err
	}
	if err := b.checkOpen(); err != nil {
		return err
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, value)
	})
	if err != nil {
		return fmt.Errorf("badger put %s: %w", key, err)
	}
	return nil
}

// Delete implements KV.
func (b *BadgerKV) Delete(_ context.Context, key string) error {
	k, err := b.key(key)
	if err != nil {
		return err
	}
	if err := b.checkOpen(); err != nil {
		return err
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(k)
	})
	if err != nil {
		return fmt.Errorf("badger delete %s: %w", key, err)
	}
	return nil
}

// RunGC rewrites value log files until badger reports nothing left to
// reclaim and returns the number of files rewritten. In-memory stores have no
// value log and always return 0.
func (b *BadgerKV) RunGC(discardRatio float64) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0, fmt.Errorf("badger store is closed")
	}

	rewrites := 0
	for {
		err := b.db.RunValueLogGC(discardRatio)
		switch {
		case err == nil:
			rewrites++
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrGCInMemoryMode):
			return rewrites, nil
		default:
			return rewrites, fmt.Errorf("badger value log gc: %w", err)
		}
	}
}

// Name implements KV.
func (b *BadgerKV) Name() string {
	return "badger"
}

// Close implements KV.
func (b *BadgerKV) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.db.Close()
}
