package clock

import "time"

// Clock abstracts time.Now so time-policy logic can be tested with fixed
// timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the wall clock.
func System() Clock { return systemClock{} }

// Fixed is a settable clock for tests.
type Fixed struct {
	T time.Time
}

func (f *Fixed) Now() time.Time { return f.T }

// Advance moves the fixed clock forward.
func (f *Fixed) Advance(d time.Duration) { f.T = f.T.Add(d) }
