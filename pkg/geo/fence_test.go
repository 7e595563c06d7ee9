package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsInside(t *testing.T) {
	f := Fence{ID: 1, CenterLat: 6.9271, CenterLng: 79.8612, RadiusMeters: 100}

	// Center is always inside.
	assert.True(t, IsInside(f.CenterLat, f.CenterLng, f))

	// Just beyond the radius along the meridian.
	outsideLat := f.CenterLat + (f.RadiusMeters+1)*degPerMeter
	assert.False(t, IsInside(outsideLat, f.CenterLng, f))

	m := Check(f.CenterLat, f.CenterLng, f)
	assert.True(t, m.Inside)
	assert.Equal(t, 0.0, m.DistanceMeters)
	assert.Equal(t, f.ID, m.FenceID)
}

func TestDetectTransitions(t *testing.T) {
	f := Fence{ID: 7, CenterLat: 0, CenterLng: 0, RadiusMeters: 50}
	inside := Check(0, 0, f)
	outside := Check(200*degPerMeter, 0, f)

	// Membership sequence false, true, true, false: one enter, one exit.
	seq := []Membership{outside, inside, inside, outside}
	var got []Transition
	for i := 1; i < len(seq); i++ {
		got = append(got, DetectTransitions([]Membership{seq[i-1]}, []Membership{seq[i]})...)
	}
	require.Len(t, got, 2)
	assert.Equal(t, TransitionEnter, got[0].Type)
	assert.Equal(t, TransitionExit, got[1].Type)
	assert.Equal(t, uint(7), got[0].FenceID)
}

func TestDetectTransitionsMultipleFences(t *testing.T) {
	near := Fence{ID: 1, CenterLat: 0, CenterLng: 0, RadiusMeters: 50}
	far := Fence{ID: 2, CenterLat: 1, CenterLng: 1, RadiusMeters: 50}
	fences := []Fence{near, far}

	prev := CheckAll(200*degPerMeter, 0, fences) // outside both
	curr := CheckAll(0, 0, fences)               // inside near only

	got := DetectTransitions(prev, curr)
	require.Len(t, got, 1)
	assert.Equal(t, uint(1), got[0].FenceID)
	assert.Equal(t, TransitionEnter, got[0].Type)

	// Unchanged membership emits nothing.
	assert.Empty(t, DetectTransitions(curr, curr))
}

func TestDetectTransitionsNoPriorState(t *testing.T) {
	f := Fence{ID: 3, CenterLat: 0, CenterLng: 0, RadiusMeters: 50}
	curr := CheckAll(0, 0, []Fence{f})
	// A fence with no previous membership produces no edge.
	assert.Empty(t, DetectTransitions(nil, curr))
}
