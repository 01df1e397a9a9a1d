// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package recommend

import (
	"sync"
	"testing"
	"time"
)

func TestRiderLocks_SerializesSameRider(t *testing.T) {
	t.Parallel()

	locks := newRiderLocks()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(42)
			defer unlock()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Errorf("max concurrent holders = %d, want 1", maxSeen)
	}
	if got := locks.size(); got != 0 {
		t.Errorf("size() = %d after release, want 0", got)
	}
}

func TestRiderLocks_IndependentRiders(t *testing.T) {
	t.Parallel()

	locks := newRiderLocks()
	unlockA := locks.Lock(1)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock(2)
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Lock(2) blocked while rider 1 was held")
	}
	if got := locks.size(); got != 1 {
		t.Errorf("size() = %d, want 1", got)
	}
}
