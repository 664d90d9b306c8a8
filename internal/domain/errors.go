package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrCorruptStore means the persisted state exists but cannot be
	// trusted. The store refuses to initialize over it.
	ErrCorruptStore = errors.New("store data is corrupt")

	// ErrPersistence means a durable write could not complete. The
	// store's observable state is unchanged.
	ErrPersistence = errors.New("persistence failure")

	// ErrNoTimezone means the identity has no stored timezone.
	ErrNoTimezone = errors.New("no timezone set")

	// ErrZoneLimit means the chat's display list is already full.
	ErrZoneLimit = errors.New("chat timezone list is full")

	// ErrBadTimePhrase means the input matched none of the supported
	// time forms.
	ErrBadTimePhrase = errors.New("unrecognized time phrase")
)

// InvalidTimezoneError reports an identifier the catalog does not know,
// together with near-miss suggestions for the user.
type InvalidTimezoneError struct {
	Raw         string
	Suggestions []string
}

func (e *InvalidTimezoneError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown timezone %q", e.Raw)
	}
	return fmt.Sprintf("unknown timezone %q (did you mean: %s)", e.Raw, strings.Join(e.Suggestions, ", "))
}

// AmbiguousLocalTimeError reports a wall-clock time that occurs twice in
// the zone because clocks fell back across it.
type AmbiguousLocalTimeError struct {
	Wall          Wall
	Zone          string
	First, Second time.Time
}

func (e *AmbiguousLocalTimeError) Error() string {
	return fmt.Sprintf("local time %s occurs twice in %s", e.Wall, e.Zone)
}

// NonexistentLocalTimeError reports a wall-clock time skipped by a
// spring-forward transition in the zone.
type NonexistentLocalTimeError struct {
	Wall Wall
	Zone string
}

func (e *NonexistentLocalTimeError) Error() string {
	return fmt.Sprintf("local time %s does not exist in %s", e.Wall, e.Zone)
}
