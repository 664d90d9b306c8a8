package telegram

import "testing"

func TestSplitCommand(t *testing.T) {
	cases := []struct {
		in       string
		cmd, arg string
	}{
		{"/now", "/now", ""},
		{"/settz Europe/Berlin", "/settz", "Europe/Berlin"},
		{"/settz@whattimebot Europe/Berlin", "/settz", "Europe/Berlin"},
		{"/when  in 2 hours ", "/when", "in 2 hours"},
		{"hello there", "", "hello there"},
		{"/addtz HQ = Europe/Berlin", "/addtz", "HQ = Europe/Berlin"},
	}
	for _, tc := range cases {
		cmd, arg := splitCommand(tc.in)
		if cmd != tc.cmd || arg != tc.arg {
			t.Fatalf("%q: want (%q,%q), got (%q,%q)", tc.in, tc.cmd, tc.arg, cmd, arg)
		}
	}
}
