package internal

import "testing"

func TestNeutralize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "uplink agent 47", "uplink agent 47"},
		{"ansi color stripped", "alert\x1b[31mred\x1b[0m", "alert[31mred[0m"},
		{"newline and tab survive", "line1\nline2\tend", "line1\nline2\tend"},
		{"carriage return stripped", "a\rb", "ab"},
		{"bell stripped", "ding\a", "ding"},
		{"delete stripped", "a\x7fb", "ab"},
		{"c1 controls stripped", "ab", "ab"},
		{"unicode preserved", "zürich ✉", "zürich ✉"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Neutralize(tc.in); got != tc.want {
				t.Errorf("Neutralize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
