package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceZeroForIdenticalPoints(t *testing.T) {
	pts := [][2]float64{
		{0, 0},
		{6.9271, 79.8612},
		{-33.8688, 151.2093},
		{89.9, -179.9},
	}
	for _, p := range pts {
		assert.Equal(t, 0.0, Distance(p[0], p[1], p[0], p[1]))
	}
}

func TestDistanceSymmetry(t *testing.T) {
	d1 := Distance(6.9271, 79.8612, 7.2906, 80.6337)
	d2 := Distance(7.2906, 80.6337, 6.9271, 79.8612)
	assert.InEpsilon(t, d1, d2, 1e-6)
}

func TestDistanceMonotonicAlongMeridian(t *testing.T) {
	prev := 0.0
	for _, dLat := range []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5} {
		d := Distance(0, 0, dLat, 0)
		assert.Greater(t, d, prev, "distance should grow with angular separation")
		prev = d
	}
}

func TestDistanceOneDegreeLatitude(t *testing.T) {
	// 1 degree of latitude at the equator is about 111.32 km.
	d := Distance(0, 0, 1, 0)
	assert.InDelta(t, 111320, d, 111320*0.01)
}

func TestDistanceNonNegative(t *testing.T) {
	assert.GreaterOrEqual(t, Distance(-45, 170, 45, -170), 0.0)
}
