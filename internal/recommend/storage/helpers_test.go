// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package storage

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"sync"
)

func decodeEnvelopeForTest(data []byte) (storedModel, error) {
	var env storedModel
	err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env)
	return env, err
}

func encodeEnvelopeForTest(env storedModel) ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(env)
	return buf.Bytes(), err
}

var errUnavailable = errors.New("backend unavailable")

// flakyKV is an in-memory KV whose operations fail while down is set.
type flakyKV struct {
	mu    sync.Mutex
	data  map[string][]byte
	down  bool
	calls int
}

func newFlakyKV() *flakyKV {
	return &flakyKV{data: make(map[string][]byte)}
}

func (f *flakyKV) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *flakyKV) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *flakyKV) enter() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.down {
		return errUnavailable
	}
	return nil
}

func (f *flakyKV) Has(_ context.Context, key string) (bool, error) {
	if err := f.enter(); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok, nil
}

func (f *flakyKV) Get(_ context.Context, key string) ([]byte, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return v, nil
}

func (f *flakyKV) Put(_ context.Context, key string, value []byte) error {
	if err := f.enter(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *flakyKV) Delete(_ context.Context, key string) error {
	if err := f.enter(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *flakyKV) Name() string { return "flaky" }

func (f *flakyKV) Close() error { return nil }
