package geo

import (
	"fmt"
	"math"
	"time"
)

// Sample is one GPS reading. Optional sensor fields use pointers so a
// missing reading is distinguishable from zero.
type Sample struct {
	Latitude   float64
	Longitude  float64
	RecordedAt time.Time
	Accuracy   *float64 // meters
	Speed      *float64 // m/s, as reported by the device
	Heading    *float64 // degrees
	Battery    *float64 // percent, 0-100
}

// Kinds of sample validation failures.
const (
	KindCoordinateRange = "coordinate_range"
	KindNotFinite       = "not_finite"
	KindTimestampOrder  = "timestamp_order"
)

// InvalidSampleError reports the first invalid sample in a trace.
type InvalidSampleError struct {
	Index int
	Kind  string
}

func (e *InvalidSampleError) Error() string {
	return fmt.Sprintf("invalid sample at index %d: %s", e.Index, e.Kind)
}

// ValidateTrace checks coordinates and timestamp ordering before
// aggregation. Timestamps must be non-decreasing; equal consecutive
// timestamps are allowed (duplicate or retried captures). Empty and
// single-sample traces are valid.
func ValidateTrace(samples []Sample) error {
	for i, s := range samples {
		if math.IsNaN(s.Latitude) || math.IsInf(s.Latitude, 0) ||
			math.IsNaN(s.Longitude) || math.IsInf(s.Longitude, 0) {
			return &InvalidSampleError{Index: i, Kind: KindNotFinite}
		}
		if s.Latitude < -90 || s.Latitude > 90 || s.Longitude < -180 || s.Longitude > 180 {
			return &InvalidSampleError{Index: i, Kind: KindCoordinateRange}
		}
		if i > 0 && s.RecordedAt.Before(samples[i-1].RecordedAt) {
			return &InvalidSampleError{Index: i, Kind: KindTimestampOrder}
		}
	}
	return nil
}
