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

// eligibleDriversQuery selects active drivers with at least one active vehicle
// that are not assigned to an in-flight ride.
const eligibleDriversQuery = `
	SELECT d.id, d.average_rating, d.total_rides, d.status
	FROM drivers d
	WHERE d.status = $1
	  AND EXISTS (
		SELECT 1 FROM vehicles v
		WHERE v.driver_id = d.id AND v.is_active
	  )
	  AND NOT EXISTS (
		SELECT 1 FROM rides r
		WHERE r.driver_id = d.id AND r.status IN ($2, $3, $4)
	  )
	ORDER BY d.id
`

// GetEligibleDrivers returns the current candidate snapshot.
func (db *DB) GetEligibleDrivers(ctx context.Context) (candidates []recommend.DriverCandidate, err error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("select", "drivers", start, err) }()

	rows, err := db.conn.QueryContext(ctx, eligibleDriversQuery,
		recommend.DriverStatusActive,
		string(recommend.RideStatusActive),
		string(recommend.RideStatusRequested),
		string(recommend.RideStatusAccepted),
	)
	if err != nil {
		return nil, fmt.Errorf("query eligible drivers: %w", err)
	}
	defer rows.Close()

	candidates = []recommend.DriverCandidate{}
	for rows.Next() {
		var (
			c      recommend.DriverCandidate
			rating sql.NullFloat64
		)
		if err := rows.Scan(&c.DriverID, &rating, &c.TotalRides, &c.Status); err != nil {
			return nil, fmt.Errorf("scan driver: %w", err)
		}
		c.AverageRating = nullFloat(rating)
		c.HasActiveVehicle = true
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drivers: %w", err)
	}

	return candidates, nil
}
