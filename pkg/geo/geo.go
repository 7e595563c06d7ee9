package geo

import "math"

// EarthRadiusMeters is the spherical Earth radius used by Haversine.
const EarthRadiusMeters = 6371000.0

// MovementThresholdMeters separates active from idle segments. Two
// consecutive samples further apart than this count as movement; anything
// closer is treated as GPS jitter around a standstill.
const MovementThresholdMeters = 10.0

// SpeedOutlierKmh is the cutoff above which a segment speed is treated as
// GPS noise and excluded from average-speed computation. The segment's
// distance and elapsed time still count toward trace totals.
const SpeedOutlierKmh = 100.0

// Distance returns the great-circle distance in meters between two points
// (lat/lng in degrees), using the Haversine formula.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	φ1, φ2 := rad(lat1), rad(lat2)
	Δφ := rad(lat2 - lat1)
	Δλ := rad(lng2 - lng1)
	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}
