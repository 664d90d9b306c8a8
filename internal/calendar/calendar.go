// Package calendar builds add-to-calendar links for resolved event
// times.
package calendar

import (
	"net/url"
	"time"
)

// Template bundles a title prefix and default duration for a class of
// events.
type Template struct {
	TitlePrefix string
	Duration    time.Duration
	Description string
}

// Templates available to the /event command.
var Templates = map[string]Template{
	"gaming":  {TitlePrefix: "🎮 Gaming: ", Duration: 3 * time.Hour, Description: "Gaming session"},
	"meeting": {TitlePrefix: "📅 Meeting: ", Duration: time.Hour, Description: "Meeting"},
	"event":   {TitlePrefix: "🎉 Event: ", Duration: 2 * time.Hour, Description: "Event"},
	"raid":    {TitlePrefix: "⚔️ Raid: ", Duration: 4 * time.Hour, Description: "Raid"},
}

const googleStamp = "20060102T150405Z"

// GoogleLink returns a Google Calendar prefill URL for an event
// starting at start.
func GoogleLink(start time.Time, title string, duration time.Duration, description string) string {
	startUTC := start.UTC()
	end := startUTC.Add(duration)

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", title)
	q.Set("dates", startUTC.Format(googleStamp)+"/"+end.Format(googleStamp))
	if description != "" {
		q.Set("details", description)
	}
	return "https://calendar.google.com/calendar/render?" + q.Encode()
}
