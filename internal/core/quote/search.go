package quote

import (
	perr "origquote/internal/platform/errors"

	"github.com/dlclark/regexp2"
)

// Occurrence is one match of a compiled quote in the source text
type Occurrence struct {
	Ordinal int    `json:"ordinal"` // 1-based, left to right
	Span    Span   `json:"span"`    // overall match, end exclusive
	Gaps    []Span `json:"gaps"`    // one span per gap group, in source order
}

// Search returns every non-overlapping occurrence of p in text, left to right.
// Gap groups are lazy so a gap consumes as little text as the rest of the
// pattern allows. No match yields an empty slice and a nil error
func Search(p *Pattern, text string) ([]Occurrence, error) {
	if p == nil || p.re == nil {
		return nil, perr.PatternCompilef("search with an uncompiled pattern")
	}

	out := []Occurrence{}
	m, err := p.re.FindStringMatch(text)
	for err == nil && m != nil {
		out = append(out, occurrenceOf(m, len(out)+1))
		m, err = p.re.FindNextMatch(m)
	}
	if err != nil {
		return nil, perr.WithOp(
			perr.Wrapf(err, perr.ErrorCodeMatchTimeout, "search %q aborted after %d occurrences", p.Quote, len(out)),
			"search",
		)
	}
	return out, nil
}

// occurrenceOf converts an engine match; regexp2 reports rune offsets
func occurrenceOf(m *regexp2.Match, ordinal int) Occurrence {
	occ := Occurrence{
		Ordinal: ordinal,
		Span:    Span{Start: m.Index, End: m.Index + m.Length},
	}
	groups := m.Groups()
	if len(groups) > 1 {
		occ.Gaps = make([]Span, 0, len(groups)-1)
	}
	for _, g := range groups[1:] {
		if len(g.Captures) == 0 {
			continue // group did not participate
		}
		occ.Gaps = append(occ.Gaps, Span{Start: g.Index, End: g.Index + g.Length})
	}
	return occ
}

// Exclusions flattens the gap spans of every occurrence, in occurrence order.
// The result is never nil
func Exclusions(occs []Occurrence) []Span {
	out := []Span{}
	for _, o := range occs {
		out = append(out, o.Gaps...)
	}
	return out
}

// Find compiles quote and searches text, returning the occurrences together
// with the exclusion spans gathered from all of them
func Find(quote, text string) ([]Occurrence, []Span, error) {
	p, err := Compile(quote)
	if err != nil {
		return nil, nil, err
	}
	occs, err := Search(p, text)
	if err != nil {
		return nil, nil, err
	}
	return occs, Exclusions(occs), nil
}
