package geo

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// degPerMeter converts a meridian offset in meters to degrees of latitude.
// Along a meridian Haversine reduces to R*Δφ, so these traces have exact,
// predictable distances.
const degPerMeter = 180 / (math.Pi * EarthRadiusMeters)

// trace builds n samples spaced meters apart along the equator meridian at
// the given interval.
func trace(n int, meters float64, interval time.Duration) []Sample {
	t0 := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	out := make([]Sample, n)
	for i := range out {
		out[i] = Sample{
			Latitude:   float64(i) * meters * degPerMeter,
			Longitude:  0,
			RecordedAt: t0.Add(time.Duration(i) * interval),
		}
	}
	return out
}

func TestAggregateEmptyAndSingle(t *testing.T) {
	stats, err := Aggregate(nil)
	require.NoError(t, err)
	assert.Equal(t, MovementStats{}, stats)

	stats, err = Aggregate(trace(1, 0, time.Minute))
	require.NoError(t, err)
	assert.Equal(t, MovementStats{SampleCount: 1}, stats)
}

func TestAggregateActiveTrace(t *testing.T) {
	// Samples 11 m apart (just over the movement threshold) every minute.
	n := 6
	stats, err := Aggregate(trace(n, MovementThresholdMeters+1, time.Minute))
	require.NoError(t, err)
	assert.Equal(t, n, stats.SampleCount)
	assert.Equal(t, n-1, stats.ActiveMinutes)
	assert.Equal(t, 0, stats.IdleMinutes)
	// 11 m/min = 0.66 km/h, well below the outlier cutoff.
	assert.InDelta(t, 0.7, stats.AverageSpeedKmh, 0.05)
}

func TestAggregateIdleTrace(t *testing.T) {
	n := 5
	stats, err := Aggregate(trace(n, 5, time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, stats.ActiveMinutes)
	assert.Equal(t, n-1, stats.IdleMinutes)
	assert.Equal(t, 0.0, stats.AverageSpeedKmh)
}

func TestAggregateTotalsAndRounding(t *testing.T) {
	// 3 samples, 500 m apart, one minute between them: 1.00 km total,
	// 2 active minutes, 30 km/h average.
	stats, err := Aggregate(trace(3, 500, time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1.0, stats.TotalDistanceKm)
	assert.Equal(t, 2, stats.ActiveMinutes)
	assert.Equal(t, 30.0, stats.AverageSpeedKmh)
}

func TestSpeedOutlierBoundary(t *testing.T) {
	// At or above the cutoff: excluded from the average, distance still
	// counted.
	atCutoff := trace(2, SpeedOutlierKmh*1000*1.0000001, time.Hour)
	seg := ClassifySegment(atCutoff[0], atCutoff[1])
	require.GreaterOrEqual(t, seg.SpeedKmh, SpeedOutlierKmh)

	stats, err := Aggregate(atCutoff)
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.AverageSpeedKmh)
	assert.Greater(t, stats.TotalDistanceKm, 99.0)
	assert.Equal(t, 60, stats.ActiveMinutes)

	// Just below: included.
	below := trace(2, SpeedOutlierKmh*1000*0.999, time.Hour)
	seg = ClassifySegment(below[0], below[1])
	require.Less(t, seg.SpeedKmh, SpeedOutlierKmh)

	stats, err = Aggregate(below)
	require.NoError(t, err)
	assert.InDelta(t, 99.9, stats.AverageSpeedKmh, 0.1)
}

func TestZeroElapsedSegment(t *testing.T) {
	// Duplicate timestamp: distance counts, neither time bucket accrues.
	t0 := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	samples := []Sample{
		{Latitude: 0, RecordedAt: t0},
		{Latitude: 500 * degPerMeter, RecordedAt: t0},
	}
	stats, err := Aggregate(samples)
	require.NoError(t, err)
	assert.Equal(t, 0.5, stats.TotalDistanceKm)
	assert.Equal(t, 0, stats.ActiveMinutes)
	assert.Equal(t, 0, stats.IdleMinutes)
	assert.Equal(t, 0.0, stats.AverageSpeedKmh)
}

func TestClassifySegmentThreshold(t *testing.T) {
	t0 := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	prev := Sample{RecordedAt: t0}

	curr := Sample{Latitude: 9 * degPerMeter, RecordedAt: t0.Add(time.Minute)}
	assert.False(t, ClassifySegment(prev, curr).Active)

	curr = Sample{Latitude: 11 * degPerMeter, RecordedAt: t0.Add(time.Minute)}
	assert.True(t, ClassifySegment(prev, curr).Active)
}

func TestValidateTrace(t *testing.T) {
	t0 := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	var errOut *InvalidSampleError

	err := ValidateTrace([]Sample{{Latitude: 91, RecordedAt: t0}})
	require.ErrorAs(t, err, &errOut)
	assert.Equal(t, KindCoordinateRange, errOut.Kind)
	assert.Equal(t, 0, errOut.Index)

	err = ValidateTrace([]Sample{{Latitude: math.NaN(), RecordedAt: t0}})
	require.ErrorAs(t, err, &errOut)
	assert.Equal(t, KindNotFinite, errOut.Kind)

	err = ValidateTrace([]Sample{
		{RecordedAt: t0.Add(time.Minute)},
		{RecordedAt: t0},
	})
	require.ErrorAs(t, err, &errOut)
	assert.Equal(t, KindTimestampOrder, errOut.Kind)
	assert.Equal(t, 1, errOut.Index)

	// Equal timestamps are fine.
	assert.NoError(t, ValidateTrace([]Sample{{RecordedAt: t0}, {RecordedAt: t0}}))

	_, err = Aggregate([]Sample{{Longitude: -200, RecordedAt: t0}})
	assert.Error(t, err)
}
