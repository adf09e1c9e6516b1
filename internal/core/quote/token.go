// Package quote locates quotes, optionally containing "&" gap markers, inside a
// whitespace-tokenized source text and maps the matches back onto token indices.
//
// Pipeline order
// 1 Tokenize splits the source on single spaces and validates the round trip
// 2 Compile turns the quote into a pattern, one lazy group per gap marker
// 3 Search collects every non-overlapping occurrence and its gap spans
// 4 Align maps occurrence spans onto tokens and drops tokens inside gaps
//
// All offsets are code point offsets, so combining marks (vocalized Hebrew,
// polytonic Greek) are never split. Every function is pure and safe for
// concurrent use.
package quote

import (
	"strings"
	"unicode"
	"unicode/utf8"

	perr "origquote/internal/platform/errors"
)

// Span is a [Start,End) range of code point offsets
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of code points covered by s
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether off lies in [Start,End)
func (s Span) Contains(off int) bool { return off >= s.Start && off < s.End }

// Token is one whitespace-delimited word of the source text
type Token struct {
	Index int `json:"index"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// Span returns the token's character range
func (t Token) Span() Span { return Span{Start: t.Start, End: t.End} }

// Tokenize strips text and splits it on whitespace runs.
// Offsets are relative to the returned stripped text. Joining the tokens with
// single ASCII spaces must reproduce the stripped text exactly; tabs, newlines
// or repeated spaces fail with ErrorCodeMalformedInput
func Tokenize(text string) (string, []Token, error) {
	stripped := strings.TrimSpace(text)
	fields := strings.Fields(stripped)
	if strings.Join(fields, " ") != stripped {
		off, r := firstIrregularSpace(stripped)
		return "", nil, perr.WithField(
			perr.MalformedInputf("text is not single-space delimited: %U at offset %d", r, off),
			"text",
		)
	}

	tokens := make([]Token, 0, len(fields))
	pos := 0
	for i, f := range fields {
		n := utf8.RuneCountInString(f)
		tokens = append(tokens, Token{Index: i, Start: pos, End: pos + n})
		pos += n + 1 // the single separating space
	}
	return stripped, tokens, nil
}

// firstIrregularSpace finds the first whitespace rune that breaks the
// single-space round trip: any non-ASCII-space whitespace, or a space that
// follows another space
func firstIrregularSpace(s string) (int, rune) {
	i := 0
	prevSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if r != ' ' || prevSpace {
				return i, r
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		i++
	}
	return -1, utf8.RuneError
}

// leadingSpaceRunes counts the code points TrimSpace removed from the front of text
func leadingSpaceRunes(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n
}
