// Package strings provides string helpers that work in code points
package strings

import (
	std "strings"
	"unicode/utf8"
)

// Blank reports whether s has no non-whitespace content
func Blank(s string) bool { return std.TrimSpace(s) == "" }

// RuneLen returns the number of code points in s
func RuneLen(s string) int { return utf8.RuneCountInString(s) }

// RuneSlice returns s[start:end] addressed in code points.
// Offsets are clamped to [0, RuneLen(s)]; an inverted range yields ""
func RuneSlice(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end <= start {
		return ""
	}
	bs, be := -1, len(s)
	i := 0
	for off := range s {
		if i == start {
			bs = off
		}
		if i == end {
			be = off
			break
		}
		i++
	}
	if bs < 0 {
		return ""
	}
	return s[bs:be]
}
