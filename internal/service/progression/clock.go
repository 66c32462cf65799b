package progression

import "time"

// Clock abstracts wall-clock time so event handling and the nightly sweep
// are testable at fixed instants.
type Clock interface {
	// Now returns the current time in UTC.
	Now() time.Time
}

// systemClock is the production Clock backed by the system time.
type systemClock struct{}

// NewSystemClock returns a Clock that reads the system time in UTC.
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
