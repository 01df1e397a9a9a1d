// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/ridewise/internal/recommend"
)

const rideHistoryQuery = `
	SELECT
		r.id, r.rider_id, r.driver_id, r.status,
		r.fare_estimate, r.fare_final, r.distance_km, r.duration_min,
		r.requested_at, r.completed_at,
		d.average_rating, d.total_rides
	FROM rides r
	LEFT JOIN drivers d ON d.id = r.driver_id
	WHERE r.rider_id = $1
	ORDER BY r.requested_at, r.id
`

const rideReviewsQuery = `
	SELECT rv.id, rv.ride_id, rv.rider_id, rv.driver_id, rv.rating, rv.created_at
	FROM reviews rv
	JOIN rides r ON r.id = rv.ride_id
	WHERE r.rider_id = $1
	ORDER BY rv.created_at, rv.id
`

// GetRideHistory returns every ride of riderID, oldest first, with reviews nested
// and the driver's current aggregate stats attached.
func (db *DB) GetRideHistory(ctx context.Context, riderID int64) ([]recommend.RideRecord, error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	rides, err := db.queryRides(ctx, riderID)
	if err != nil {
		return nil, err
	}
	if len(rides) == 0 {
		return rides, nil
	}

	reviews, err := db.queryReviews(ctx, riderID)
	if err != nil {
		return nil, err
	}

	index := make(map[int64]int, len(rides))
	for i := range rides {
		index[rides[i].RideID] = i
	}
	for _, rv := range reviews {
		if i, ok := index[rv.RideID]; ok {
			rides[i].Reviews = append(rides[i].Reviews, rv)
		}
	}

	return rides, nil
}

func (db *DB) queryRides(ctx context.Context, riderID int64) (rides []recommend.RideRecord, err error) {
	start := time.Now()
	defer func() { observe("select", "rides", start, err) }()

	rows, err := db.conn.QueryContext(ctx, rideHistoryQuery, riderID)
	if err != nil {
		return nil, fmt.Errorf("query rides for rider %d: %w", riderID, err)
	}
	defer rows.Close()

	rides = []recommend.RideRecord{}
	for rows.Next() {
		var (
			ride                    recommend.RideRecord
			status                  string
			fareEstimate, fareFinal sql.NullFloat64
			distanceKm, durationMin sql.NullFloat64
			completedAt             sql.NullTime
			driverRating            sql.NullFloat64
			driverRides             sql.NullInt64
		)
		if err := rows.Scan(
			&ride.RideID, &ride.RiderID, &ride.DriverID, &status,
			&fareEstimate, &fareFinal, &distanceKm, &durationMin,
			&ride.RequestedAt, &completedAt,
			&driverRating, &driverRides,
		); err != nil {
			return nil, fmt.Errorf("scan ride: %w", err)
		}

		ride.Status = recommend.RideStatus(status)
		ride.FareEstimate = nullFloat(fareEstimate)
		ride.FareFinal = nullFloat(fareFinal)
		ride.DistanceKm = nullFloat(distanceKm)
		ride.DurationMin = nullFloat(durationMin)
		if completedAt.Valid {
			t := completedAt.Time
			ride.CompletedAt = &t
		}
		if driverRides.Valid {
			ride.Driver = &recommend.DriverStats{
				AverageRating: nullFloat(driverRating),
				TotalRides:    int(driverRides.Int64),
			}
		}

		rides = append(rides, ride)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rides: %w", err)
	}

	return rides, nil
}

func (db *DB) queryReviews(ctx context.Context, riderID int64) (reviews []recommend.ReviewRecord, err error) {
	start := time.Now()
	defer func() { observe("select", "reviews", start, err) }()

	rows, err := db.conn.QueryContext(ctx, rideReviewsQuery, riderID)
	if err != nil {
		return nil, fmt.Errorf("query reviews for rider %d: %w", riderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rv recommend.ReviewRecord
		if err := rows.Scan(&rv.ReviewID, &rv.RideID, &rv.RiderID, &rv.DriverID, &rv.Rating, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
