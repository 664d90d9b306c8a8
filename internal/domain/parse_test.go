package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimePhrase_Instants(t *testing.T) {
	loc := mustLoad(t, "America/Chicago")
	now := time.Date(2024, time.July, 1, 17, 0, 0, 0, time.UTC) // 12:00 CDT

	cases := []struct {
		in   string
		want time.Time
	}{
		{"now", now},
		{"in 2 hours", now.Add(2 * time.Hour)},
		{"in 1 hr", now.Add(time.Hour)},
		{"in 45 minutes", now.Add(45 * time.Minute)},
		{"in 5 min", now.Add(5 * time.Minute)},
	}
	for _, tc := range cases {
		got, err := ParseTimePhrase(tc.in, loc, now)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if got.Kind != KindInstant {
			t.Fatalf("%q: want instant, got wall", tc.in)
		}
		if !got.Instant.Equal(tc.want) {
			t.Fatalf("%q: want %s, got %s", tc.in, tc.want, got.Instant)
		}
	}
}

func TestParseTimePhrase_WallClock(t *testing.T) {
	loc := mustLoad(t, "America/Chicago")
	now := time.Date(2024, time.July, 1, 17, 0, 0, 0, time.UTC) // 12:00 CDT

	cases := []struct {
		in   string
		want Wall
	}{
		{"3pm", Wall{2024, time.July, 1, 15, 0, 0}},
		{"3 PM", Wall{2024, time.July, 1, 15, 0, 0}},
		{"12am", Wall{2024, time.July, 1, 0, 0, 0}},
		{"15:00", Wall{2024, time.July, 1, 15, 0, 0}},
		{"7:30 pm", Wall{2024, time.July, 1, 19, 30, 0}},
		// 9am passed three hours ago; people still mean today.
		{"9am", Wall{2024, time.July, 1, 9, 0, 0}},
	}
	for _, tc := range cases {
		got, err := ParseTimePhrase(tc.in, loc, now)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if got.Kind != KindWall {
			t.Fatalf("%q: want wall, got instant", tc.in)
		}
		if got.Wall != tc.want {
			t.Fatalf("%q: want %s, got %s", tc.in, tc.want, got.Wall)
		}
	}
}

func TestParseTimePhrase_RollsToTomorrow(t *testing.T) {
	loc := mustLoad(t, "America/Chicago")
	// 23:00 CDT; "7am" was 16 hours ago, so it means tomorrow morning.
	now := time.Date(2024, time.July, 2, 4, 0, 0, 0, time.UTC)

	got, err := ParseTimePhrase("7am", loc, now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := Wall{2024, time.July, 2, 7, 0, 0}
	if got.Wall != want {
		t.Fatalf("want %s, got %s", want, got.Wall)
	}
}

func TestParseTimePhrase_Rejects(t *testing.T) {
	loc := mustLoad(t, "America/Chicago")
	now := time.Date(2024, time.July, 1, 17, 0, 0, 0, time.UTC)

	for _, in := range []string{"", "soonish", "25:00", "13pm", "0am", "14:75", "in two hours"} {
		if _, err := ParseTimePhrase(in, loc, now); !errors.Is(err, ErrBadTimePhrase) {
			t.Fatalf("%q: want ErrBadTimePhrase, got %v", in, err)
		}
	}
}
