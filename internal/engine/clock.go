package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// The Generator reads it once per run so that every week of a snapshot is
// classified against the same instant.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. Used by the CLI when a
// reference date is pinned and by tests.
type FixedClock struct {
	At time.Time
}

// Now returns the pinned instant.
func (c FixedClock) Now() time.Time {
	return c.At
}
