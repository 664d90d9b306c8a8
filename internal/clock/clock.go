// Package clock abstracts "now" so time-dependent code stays testable.
package clock

import "time"

// Clock supplies the current absolute instant.
type Clock interface {
	Now() time.Time
}

// System reads the real wall clock, normalized to UTC.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant. Intended for tests.
type Fixed struct{ T time.Time }

func (f Fixed) Now() time.Time { return f.T }
