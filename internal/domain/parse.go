package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The bot understands a deliberately small set of time phrases:
// "now", "3pm", "7:30 pm", "15:00", "in 2 hours", "in 45 minutes".
// Anything richer is out of scope.

var (
	simpleHourRe = regexp.MustCompile(`^(\d{1,2})\s*(am|pm)$`)
	clockRe      = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?:\s*(am|pm))?$`)
	relativeRe   = regexp.MustCompile(`^in\s+(\d+)\s*(hour|hr|minute|min)s?$`)
)

// ParsedKind distinguishes phrases that name an absolute instant from
// phrases that name a wall-clock time needing zone resolution.
type ParsedKind int

const (
	KindInstant ParsedKind = iota
	KindWall
)

// ParsedTime is the result of parsing a time phrase. Relative phrases
// ("now", "in 2 hours") produce an Instant; clock phrases ("3pm",
// "15:00") produce a Wall in the speaker's zone, dated today or
// tomorrow, which must still pass through ResolveWall.
type ParsedTime struct {
	Kind    ParsedKind
	Instant time.Time
	Wall    Wall
}

// ParseTimePhrase parses s relative to now as seen in loc.
func ParseTimePhrase(s string, loc *time.Location, now time.Time) (ParsedTime, error) {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	if s == "" {
		return ParsedTime{}, ErrBadTimePhrase
	}
	localNow := now.In(loc)

	if s == "now" {
		return ParsedTime{Kind: KindInstant, Instant: now}, nil
	}

	if m := relativeRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		var d time.Duration
		if strings.HasPrefix(m[2], "h") {
			d = time.Duration(n) * time.Hour
		} else {
			d = time.Duration(n) * time.Minute
		}
		return ParsedTime{Kind: KindInstant, Instant: now.Add(d)}, nil
	}

	if m := simpleHourRe.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		hour, ok := to24Hour(hour, m[2])
		if !ok {
			return ParsedTime{}, ErrBadTimePhrase
		}
		return ParsedTime{Kind: KindWall, Wall: wallToday(localNow, hour, 0)}, nil
	}

	if m := clockRe.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if m[3] != "" {
			var ok bool
			hour, ok = to24Hour(hour, m[3])
			if !ok {
				return ParsedTime{}, ErrBadTimePhrase
			}
		}
		if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
			return ParsedTime{}, ErrBadTimePhrase
		}
		return ParsedTime{Kind: KindWall, Wall: wallToday(localNow, hour, minute)}, nil
	}

	return ParsedTime{}, ErrBadTimePhrase
}

// to24Hour converts a 12-hour clock reading to 24-hour form.
func to24Hour(hour int, meridian string) (int, bool) {
	if hour < 1 || hour > 12 {
		return 0, false
	}
	if meridian == "pm" && hour < 12 {
		hour += 12
	} else if meridian == "am" && hour == 12 {
		hour = 0
	}
	return hour, true
}

// wallToday dates the clock reading on localNow's calendar day, rolling
// to tomorrow when the moment already passed more than 12 hours ago.
// Same-day readings a few hours back stay on today, matching how people
// say "3pm" shortly after 3pm.
func wallToday(localNow time.Time, hour, minute int) Wall {
	day := localNow
	// Comparison only; a DST-gap reading would be normalized by
	// time.Date, so the Wall is built from the raw components below and
	// resolved strictly later.
	candidate := time.Date(localNow.Year(), localNow.Month(), localNow.Day(),
		hour, minute, 0, 0, localNow.Location())
	if candidate.Before(localNow) && localNow.Sub(candidate) > 12*time.Hour {
		day = day.AddDate(0, 0, 1)
	}
	return Wall{Year: day.Year(), Month: day.Month(), Day: day.Day(), Hour: hour, Minute: minute}
}
