package geo

// Fence is a named circular region. Radius must be positive; that is
// enforced where fences are created, not here.
type Fence struct {
	ID           uint
	CenterLat    float64
	CenterLng    float64
	RadiusMeters float64
}

// Membership is the per-sample classification against one fence.
type Membership struct {
	FenceID        uint
	Inside         bool
	DistanceMeters float64 // distance to the fence center
}

// TransitionType marks a membership edge.
type TransitionType string

const (
	TransitionEnter TransitionType = "ENTER"
	TransitionExit  TransitionType = "EXIT"
)

// Transition is an enter or exit edge for one fence.
type Transition struct {
	FenceID        uint
	Type           TransitionType
	DistanceMeters float64 // distance to center at the sample that triggered the edge
}

// IsInside reports whether a point lies within the fence (boundary
// inclusive).
func IsInside(lat, lng float64, f Fence) bool {
	return Distance(lat, lng, f.CenterLat, f.CenterLng) <= f.RadiusMeters
}

// Check classifies a point against one fence.
func Check(lat, lng float64, f Fence) Membership {
	d := Distance(lat, lng, f.CenterLat, f.CenterLng)
	return Membership{FenceID: f.ID, Inside: d <= f.RadiusMeters, DistanceMeters: d}
}

// CheckAll classifies a point against every fence.
func CheckAll(lat, lng float64, fences []Fence) []Membership {
	out := make([]Membership, 0, len(fences))
	for _, f := range fences {
		out = append(out, Check(lat, lng, f))
	}
	return out
}

// DetectTransitions compares prior and current memberships and returns the
// enter/exit edges. Memberships are matched by fence ID; fences present in
// only one of the two slices produce no edge (no prior state to compare
// against). The engine holds no session state, so the caller keeps the
// previous memberships per user.
func DetectTransitions(prev, curr []Membership) []Transition {
	before := make(map[uint]Membership, len(prev))
	for _, m := range prev {
		before[m.FenceID] = m
	}
	var out []Transition
	for _, m := range curr {
		p, ok := before[m.FenceID]
		if !ok {
			continue
		}
		switch {
		case !p.Inside && m.Inside:
			out = append(out, Transition{FenceID: m.FenceID, Type: TransitionEnter, DistanceMeters: m.DistanceMeters})
		case p.Inside && !m.Inside:
			out = append(out, Transition{FenceID: m.FenceID, Type: TransitionExit, DistanceMeters: m.DistanceMeters})
		}
	}
	return out
}
