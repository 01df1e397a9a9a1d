// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package recommend

import "time"

// FeatureCount is the width of every FeatureVector.
const FeatureCount = 6

// Time-of-day buckets.
const (
	BucketMorning   = 0 // 06:00-11:59
	BucketAfternoon = 1 // 12:00-17:59
	BucketNight     = 2 // otherwise
)

// Training labels for the three rating bands.
const (
	LabelGood    = 1.0
	LabelNeutral = 0.6
	LabelLow     = 0.2
)

// FeatureVector is the fixed model input schema.
type FeatureVector struct {
	DriverAverageRating float64 `json:"driver_average_rating"`
	DriverTotalRides    float64 `json:"driver_total_rides"`
	AverageRidePrice    float64 `json:"average_ride_price"`
	RideDistanceKm      float64 `json:"ride_distance_km"`
	RideDurationMin     float64 `json:"ride_duration_min"`
	TimeOfDayBucket     float64 `json:"time_of_day_bucket"`

	// Label is the regression target. Only set on training examples.
	Label float64 `json:"label,omitempty"`
}

// Values returns the features in schema order.
func (f FeatureVector) Values() [FeatureCount]float64 {
	return [FeatureCount]float64{
		f.DriverAverageRating,
		f.DriverTotalRides,
		f.AverageRidePrice,
		f.RideDistanceKm,
		f.RideDurationMin,
		f.TimeOfDayBucket,
	}
}

// TimeOfDayBucket maps t to BucketMorning, BucketAfternoon or BucketNight.
func TimeOfDayBucket(t time.Time) int {
	h := t.Hour()
	switch {
	case h >= 6 && h < 12:
		return BucketMorning
	case h >= 12 && h < 18:
		return BucketAfternoon
	default:
		return BucketNight
	}
}

// LabelForRating maps a rating onto the three training labels.
// Ratings of 4 and above are good, exactly 3 is neutral, anything else is low.
func LabelForRating(rating float64) float64 {
	switch {
	case rating >= 4:
		return LabelGood
	case rating == 3:
		return LabelNeutral
	default:
		return LabelLow
	}
}

// RidePrice returns FareFinal, else FareEstimate, else 0.
func RidePrice(r *RideRecord) float64 {
	switch {
	case r.FareFinal != nil:
		return *r.FareFinal
	case r.FareEstimate != nil:
		return *r.FareEstimate
	default:
		return 0
	}
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// FeatureExtractor builds feature vectors for training and prediction.
type FeatureExtractor struct {
	now func() time.Time
}

// NewFeatureExtractor creates an extractor. A nil clock uses time.Now.
func NewFeatureExtractor(now func() time.Time) FeatureExtractor {
	if now == nil {
		now = time.Now
	}
	return FeatureExtractor{now: now}
}

// ExtractTrainingExample builds a labelled example from a ride and its review.
// It returns false when review is nil.
func (FeatureExtractor) ExtractTrainingExample(ride *RideRecord, review *ReviewRecord) (FeatureVector, bool) {
	if ride == nil || review == nil {
		return FeatureVector{}, false
	}

	var rating, rides float64
	if ride.Driver != nil {
		rating = valueOrZero(ride.Driver.AverageRating)
		rides = float64(ride.Driver.TotalRides)
	}

	return FeatureVector{
		DriverAverageRating: rating,
		DriverTotalRides:    rides,
		AverageRidePrice:    RidePrice(ride),
		RideDistanceKm:      valueOrZero(ride.DistanceKm),
		RideDurationMin:     valueOrZero(ride.DurationMin),
		TimeOfDayBucket:     float64(TimeOfDayBucket(ride.OccurredAt())),
		Label:               LabelForRating(review.Rating),
	}, true
}

// ExtractPredictionFeatures builds an unlabelled vector from a candidate's current stats,
// the rider's historical averages and the current time of day.
func (e FeatureExtractor) ExtractPredictionFeatures(c *DriverCandidate, avg RiderAverages) FeatureVector {
	return FeatureVector{
		DriverAverageRating: c.Rating(),
		DriverTotalRides:    float64(c.TotalRides),
		AverageRidePrice:    avg.Price,
		RideDistanceKm:      avg.DistanceKm,
		RideDurationMin:     avg.DurationMin,
		TimeOfDayBucket:     float64(TimeOfDayBucket(e.now())),
	}
}

// ComputeRiderAverages averages price, distance and duration over the rider's completed
// rides, treating missing values as 0. It returns zeros when there are none.
func ComputeRiderAverages(riderID int64, history []RideRecord) RiderAverages {
	var sum RiderAverages
	n := 0
	for i := range history {
		r := &history[i]
		if r.RiderID != riderID || r.Status != RideStatusCompleted {
			continue
		}
		sum.Price += RidePrice(r)
		sum.DistanceKm += valueOrZero(r.DistanceKm)
		sum.DurationMin += valueOrZero(r.DurationMin)
		n++
	}
	if n == 0 {
		return RiderAverages{}
	}
	return RiderAverages{
		Price:       sum.Price / float64(n),
		DistanceKm:  sum.DistanceKm / float64(n),
		DurationMin: sum.DurationMin / float64(n),
	}
}

// TrainingExamples extracts one example per completed ride the rider reviewed.
func (e FeatureExtractor) TrainingExamples(riderID int64, history []RideRecord) []FeatureVector {
	examples := make([]FeatureVector, 0, len(history))
	for i := range history {
		r := &history[i]
		if r.RiderID != riderID || r.Status != RideStatusCompleted {
			continue
		}
		if fv, ok := e.ExtractTrainingExample(r, r.ReviewBy(riderID)); ok {
			examples = append(examples, fv)
		}
	}
	return examples
}
