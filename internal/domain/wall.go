package domain

import (
	"fmt"
	"time"
)

// Wall is a civil wall-clock time on a specific calendar date, with no
// timezone attached. Mapping a Wall to an instant requires a zone and
// may fail across DST transitions.
type Wall struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Second int
}

// WallOf extracts the wall-clock components of t in its own location.
func WallOf(t time.Time) Wall {
	return Wall{
		Year:   t.Year(),
		Month:  t.Month(),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

func (w Wall) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		w.Year, w.Month, w.Day, w.Hour, w.Minute, w.Second)
}

// LocalAt renders an absolute instant as wall-clock time in the
// record's timezone. Pure function of its inputs.
func LocalAt(rec *Record, at time.Time) (time.Time, error) {
	loc, err := time.LoadLocation(rec.TZ)
	if err != nil {
		return time.Time{}, err
	}
	return at.In(loc), nil
}

// ResolveWall maps a wall-clock time to the absolute instant it names
// in loc. A time skipped by a spring-forward gap yields
// NonexistentLocalTimeError; a time repeated by a fall-back fold yields
// AmbiguousLocalTimeError with both candidate instants. The ambiguity
// is reported rather than resolved: picking silently would hand users a
// plausible but wrong answer exactly when DST makes it matter.
func ResolveWall(loc *time.Location, w Wall) (time.Time, error) {
	// Treat the wall clock as if it were UTC to get a nearby instant,
	// then try every UTC offset in effect around that date.
	naive := time.Date(w.Year, w.Month, w.Day, w.Hour, w.Minute, w.Second, 0, time.UTC)

	var offsets []int
	for _, d := range []time.Duration{-24 * time.Hour, 0, 24 * time.Hour} {
		_, off := naive.Add(d).In(loc).Zone()
		if !containsInt(offsets, off) {
			offsets = append(offsets, off)
		}
	}

	var matches []time.Time
	for _, off := range offsets {
		inst := naive.Add(-time.Duration(off) * time.Second)
		if WallOf(inst.In(loc)) == w && !containsInstant(matches, inst) {
			matches = append(matches, inst)
		}
	}

	switch len(matches) {
	case 0:
		return time.Time{}, &NonexistentLocalTimeError{Wall: w, Zone: loc.String()}
	case 1:
		return matches[0].In(loc), nil
	default:
		first, second := matches[0], matches[1]
		if second.Before(first) {
			first, second = second, first
		}
		return time.Time{}, &AmbiguousLocalTimeError{
			Wall:   w,
			Zone:   loc.String(),
			First:  first.In(loc),
			Second: second.In(loc),
		}
	}
}

// Convert interprets w as wall-clock time in from's zone and re-renders
// the resulting instant in to's zone.
func Convert(from, to *Record, w Wall) (time.Time, error) {
	fromLoc, err := time.LoadLocation(from.TZ)
	if err != nil {
		return time.Time{}, err
	}
	toLoc, err := time.LoadLocation(to.TZ)
	if err != nil {
		return time.Time{}, err
	}
	inst, err := ResolveWall(fromLoc, w)
	if err != nil {
		return time.Time{}, err
	}
	return inst.In(toLoc), nil
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func containsInstant(s []time.Time, t time.Time) bool {
	for _, x := range s {
		if x.Equal(t) {
			return true
		}
	}
	return false
}
