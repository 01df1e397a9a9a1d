// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package recommend

import "sync"

// riderLocks serializes model writers per rider. Entries are removed once unused.
type riderLocks struct {
	mu    sync.Mutex
	locks map[int64]*riderLock
}

type riderLock struct {
	mu   sync.Mutex
	refs int
}

func newRiderLocks() *riderLocks {
	return &riderLocks{locks: make(map[int64]*riderLock)}
}

// Lock acquires the writer lock for riderID and returns its release function.
func (l *riderLocks) Lock(riderID int64) func() {
	l.mu.Lock()
	lk, ok := l.locks[riderID]
	if !ok {
		lk = &riderLock{}
		l.locks[riderID] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.mu.Lock()
	return func() {
		lk.mu.Unlock()
		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, riderID)
		}
		l.mu.Unlock()
	}
}

// size returns the number of tracked riders.
func (l *riderLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
