package clock

import "time"

//go:generate mockgen -destination=mocks/mock_time_provider.go -package=mocks github.com/KirkDiggler/ability-engine/internal/clock TimeProvider

// TimeProvider is the engine's only source of "now"
type TimeProvider interface {
	Now() time.Time
}

// System reads the wall clock in UTC
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant until advanced; used by debug tooling and tests
type Fixed struct {
	At time.Time
}

func (f *Fixed) Now() time.Time {
	return f.At
}

// Advance moves the fixed clock forward
func (f *Fixed) Advance(d time.Duration) {
	f.At = f.At.Add(d)
}
