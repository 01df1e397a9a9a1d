// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ridewise/internal/recommend/algorithms"
)

var (
	errBackend      = errors.New("backend unavailable")
	errModelMissing = errors.New("model not found")
)

// mockHistory implements RideHistoryProvider for testing.
type mockHistory struct {
	mu    sync.Mutex
	rides map[int64][]RideRecord
	err   error
	calls atomic.Int32
}

func newMockHistory() *mockHistory {
	return &mockHistory{rides: make(map[int64][]RideRecord)}
}

func (m *mockHistory) add(rides ...RideRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rides {
		m.rides[r.RiderID] = append(m.rides[r.RiderID], r)
	}
}

func (m *mockHistory) GetRideHistory(_ context.Context, riderID int64) ([]RideRecord, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RideRecord(nil), m.rides[riderID]...), nil
}

// mockCandidates implements CandidateSource for testing.
type mockCandidates struct {
	drivers []DriverCandidate
	err     error
	pingErr error
}

func (m *mockCandidates) GetEligibleDrivers(_ context.Context) ([]DriverCandidate, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]DriverCandidate(nil), m.drivers...), nil
}

func (m *mockCandidates) Ping(_ context.Context) error {
	return m.pingErr
}

// memStore implements ModelStore in memory.
type memStore struct {
	mu     sync.Mutex
	models map[int64]*algorithms.Pipeline

	existsErr error
	loadErr   error

	// saveFailures is the number of Save calls that fail before one succeeds.
	saveFailures int
	// onSaveFail runs after a failed Save, outside the store lock.
	onSaveFail func(riderID int64)

	saves       atomic.Int32
	invalidates atomic.Int32
}

func newMemStore() *memStore {
	return &memStore{models: make(map[int64]*algorithms.Pipeline)}
}

func (s *memStore) Exists(_ context.Context, riderID int64) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.models[riderID]
	return ok, nil
}

func (s *memStore) Load(_ context.Context, riderID int64) (*algorithms.Pipeline, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.models[riderID]
	if !ok {
		return nil, fmt.Errorf("rider %d: %w", riderID, errModelMissing)
	}
	return p, nil
}

func (s *memStore) Save(_ context.Context, riderID int64, p *algorithms.Pipeline) error {
	s.saves.Add(1)
	s.mu.Lock()
	if s.saveFailures > 0 {
		s.saveFailures--
		hook := s.onSaveFail
		s.mu.Unlock()
		if hook != nil {
			hook(riderID)
		}
		return errBackend
	}
	s.models[riderID] = p
	s.mu.Unlock()
	return nil
}

func (s *memStore) Invalidate(_ context.Context, riderID int64) error {
	s.invalidates.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.models, riderID)
	return nil
}

func (s *memStore) put(riderID int64, p *algorithms.Pipeline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[riderID] = p
}

// testLogger returns a zerolog logger for testing.
func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// testConfig returns the default config with fast retries.
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Persistence.InitialBackoff = time.Millisecond
	cfg.Persistence.MaxBackoff = 2 * time.Millisecond
	return cfg
}

func fptr(v float64) *float64 { return &v }

func tptr(t time.Time) *time.Time { return &t }

var baseTime = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// reviewedRide returns a completed ride rated by the rider. A negative rating
// leaves the ride unreviewed.
func reviewedRide(rideID, riderID, driverID int64, at time.Time, rating float64) RideRecord {
	r := RideRecord{
		RideID:       rideID,
		RiderID:      riderID,
		DriverID:     driverID,
		Status:       RideStatusCompleted,
		FareEstimate: fptr(12),
		FareFinal:    fptr(10 + float64(rideID%7)),
		DistanceKm:   fptr(2 + float64(rideID%5)),
		DurationMin:  fptr(8 + float64(rideID%9)),
		RequestedAt:  at.Add(-20 * time.Minute),
		CompletedAt:  tptr(at),
		Driver: &DriverStats{
			AverageRating: fptr(3.5 + float64(driverID%4)*0.4),
			TotalRides:    int(20 + driverID*13),
		},
	}
	if rating >= 0 {
		r.Reviews = []ReviewRecord{{
			ReviewID:  rideID * 10,
			RideID:    rideID,
			RiderID:   riderID,
			DriverID:  driverID,
			Rating:    rating,
			CreatedAt: at.Add(time.Hour),
		}}
	}
	return r
}

func cancelledRide(rideID, riderID, driverID int64, at time.Time) RideRecord {
	return RideRecord{
		RideID:      rideID,
		RiderID:     riderID,
		DriverID:    driverID,
		Status:      RideStatusCancelled,
		RequestedAt: at,
	}
}

func candidate(id int64, rating float64, rides int) DriverCandidate {
	c := DriverCandidate{
		DriverID:         id,
		TotalRides:       rides,
		Status:           DriverStatusActive,
		HasActiveVehicle: true,
	}
	if rating > 0 {
		c.AverageRating = fptr(rating)
	}
	return c
}

// nanPipeline returns a pipeline that scores every input as NaN.
func nanPipeline() *algorithms.Pipeline {
	mins := make([]float64, FeatureCount)
	maxs := make([]float64, FeatureCount)
	weights := make([]float64, FeatureCount)
	for i := range maxs {
		maxs[i] = 1
		weights[i] = math.NaN()
	}
	return &algorithms.Pipeline{
		Version:    algorithms.PipelineVersion,
		Normalizer: algorithms.MinMaxNormalizer{Mins: mins, Maxs: maxs},
		Model:      algorithms.LinearModel{Weights: weights},
	}
}

// fitForTest fits a pipeline the way the trainer does.
func fitForTest(examples []FeatureVector) (*algorithms.Pipeline, error) {
	rows := make([][]float64, len(examples))
	labels := make([]float64, len(examples))
	for i := range examples {
		values := examples[i].Values()
		rows[i] = values[:]
		labels[i] = examples[i].Label
	}
	return algorithms.FitPipeline(context.Background(), rows, labels, DefaultConfig().Training.SDCA())
}
