package geo

import "math"

// Segment is the classification of the stretch between two consecutive
// samples.
type Segment struct {
	DistanceMeters float64
	Elapsed        float64 // seconds; 0 when timestamps are not increasing
	Active         bool
	SpeedKmh       float64 // 0 when Elapsed is 0
}

// MovementStats aggregates a whole trace.
type MovementStats struct {
	TotalDistanceKm float64 `json:"total_distance_km"` // rounded to 2 decimals
	AverageSpeedKmh float64 `json:"average_speed_kmh"` // rounded to 1 decimal
	ActiveMinutes   int     `json:"active_minutes"`
	IdleMinutes     int     `json:"idle_minutes"`
	SampleCount     int     `json:"sample_count"`
}

// ClassifySegment computes distance, elapsed time, active/idle flag and
// instantaneous speed for a consecutive pair. A non-positive elapsed time
// (duplicate timestamps) still contributes its distance but no time and no
// speed sample.
func ClassifySegment(prev, curr Sample) Segment {
	seg := Segment{
		DistanceMeters: Distance(prev.Latitude, prev.Longitude, curr.Latitude, curr.Longitude),
	}
	seg.Active = seg.DistanceMeters > MovementThresholdMeters
	elapsed := curr.RecordedAt.Sub(prev.RecordedAt).Seconds()
	if elapsed <= 0 {
		return seg
	}
	seg.Elapsed = elapsed
	seg.SpeedKmh = (seg.DistanceMeters / 1000) / (elapsed / 3600)
	return seg
}

// Aggregate walks consecutive pairs of a time-ordered trace and produces
// MovementStats. The trace is validated first; callers get an
// *InvalidSampleError instead of silently corrupted aggregates.
//
// Active segments with a speed below SpeedOutlierKmh contribute to the
// average; outliers keep their distance and time in the totals but are
// dropped from the mean. Fewer than two samples yields zero stats.
func Aggregate(samples []Sample) (MovementStats, error) {
	if err := ValidateTrace(samples); err != nil {
		return MovementStats{}, err
	}
	stats := MovementStats{SampleCount: len(samples)}
	if len(samples) < 2 {
		return stats, nil
	}

	var totalMeters, activeSec, idleSec float64
	var speeds []float64
	for i := 1; i < len(samples); i++ {
		seg := ClassifySegment(samples[i-1], samples[i])
		totalMeters += seg.DistanceMeters
		if seg.Elapsed <= 0 {
			continue
		}
		if seg.Active {
			activeSec += seg.Elapsed
			if seg.SpeedKmh < SpeedOutlierKmh {
				speeds = append(speeds, seg.SpeedKmh)
			}
		} else {
			idleSec += seg.Elapsed
		}
	}

	var avg float64
	if len(speeds) > 0 {
		var sum float64
		for _, s := range speeds {
			sum += s
		}
		avg = sum / float64(len(speeds))
	}

	stats.TotalDistanceKm = round(totalMeters/1000, 2)
	stats.AverageSpeedKmh = round(avg, 1)
	stats.ActiveMinutes = int(math.Round(activeSec / 60))
	stats.IdleMinutes = int(math.Round(idleSec / 60))
	return stats, nil
}

func round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
