package services

import "time"

// Clock is the single source of "now" for the engine. Injectable so tests can
// pin time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// SystemClock returns a Clock backed by the system time in UTC.
func SystemClock() Clock {
	return realClock{}
}

// FixedClock returns a Clock frozen at the given instant. Test helper.
type FixedClock struct {
	Time time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.Time
}
