package quote

import (
	perr "origquote/internal/platform/errors"
)

const (
	// All selects every occurrence
	All = 0
	// First selects the leftmost occurrence, the usual default
	First = 1
)

// Result is the aligned token set, ascending and de-duplicated
type Result struct {
	Ranges  []Span `json:"ranges"`
	Indices []int  `json:"indices"`
}

// Align maps occurrences of a quote onto the tokens of text.
//
// occurrence selects the n-th occurrence (1-based) or All. A selected match
// (s,e) is treated as the inclusive range [s,e] and a token [start,end] is
// covered when the two ranges intersect; the extra end offset catches tokens
// whose trailing punctuation the quote left out.
//
// exclusions are gap spans from the search (typically of every occurrence). A
// covered token is dropped when its range equals an exclusion span, or when
// its start or end offset falls inside any exclusion span
func Align(occs []Occurrence, text string, exclusions []Span, occurrence int) (Result, error) {
	_, tokens, err := Tokenize(text)
	if err != nil {
		return Result{}, perr.WithOp(err, "align")
	}
	selected, err := selectOccurrences(occs, occurrence)
	if err != nil {
		return Result{}, perr.WithOp(err, "align")
	}

	// token offsets are relative to the stripped text, matches to text itself
	lead := leadingSpaceRunes(text)

	covered := make([]bool, len(tokens))
	for _, o := range selected {
		s, e := o.Span.Start, o.Span.End
		for i, tk := range tokens {
			if covered[i] {
				continue
			}
			if tk.Start+lead <= e && s <= tk.End+lead {
				covered[i] = true
			}
		}
	}

	// tokens are already in ascending, unique order
	res := Result{Ranges: []Span{}, Indices: []int{}}
	for i, tk := range tokens {
		if !covered[i] {
			continue
		}
		r := Span{Start: tk.Start + lead, End: tk.End + lead}
		if isExcluded(r, exclusions) {
			continue
		}
		res.Ranges = append(res.Ranges, r)
		res.Indices = append(res.Indices, tk.Index)
	}
	return res, nil
}

func selectOccurrences(occs []Occurrence, occurrence int) ([]Occurrence, error) {
	switch {
	case occurrence < 0:
		return nil, perr.WithField(perr.InvalidArgf("occurrence must be >= 0, got %d", occurrence), "occurrence")
	case occurrence == All:
		return occs, nil
	case occurrence > len(occs):
		return nil, perr.WithField(
			perr.OutOfRangef("occurrence %d requested but %d found", occurrence, len(occs)),
			"occurrence",
		)
	default:
		return occs[occurrence-1 : occurrence], nil
	}
}

// isExcluded applies the gap rule: exact span match, or either boundary
// offset inside some gap's [Start,End)
func isExcluded(r Span, exclusions []Span) bool {
	for _, g := range exclusions {
		if r == g || g.Contains(r.Start) || g.Contains(r.End) {
			return true
		}
	}
	return false
}
