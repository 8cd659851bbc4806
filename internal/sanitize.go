package internal

import "strings"

// Neutralize is the single sanitizing boundary for server-supplied
// text. Every renderer passes untrusted strings (names, subjects,
// bodies, labels) through here before inserting them into the view, so
// a hostile server cannot smuggle terminal escape sequences into the
// player's display. Newlines and tabs survive; ESC and all other C0/C1
// controls do not.
func Neutralize(s string) string {
	if !strings.ContainsFunc(s, isControlRune) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isControlRune(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isControlRune(r rune) bool {
	if r == '\n' || r == '\t' {
		return false
	}
	return r < 0x20 || r == 0x7f || (r >= 0x80 && r <= 0x9f)
}
