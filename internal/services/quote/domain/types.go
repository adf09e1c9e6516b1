// Package domain defines the request, result and port types of the quote locator
package domain

import "origquote/internal/core/quote"

// Request asks for the tokens of Text covered by Quote
type Request struct {
	Quote      string `json:"quote" validate:"required,nonblank"`
	Text       string `json:"text" validate:"required"`
	Occurrence int    `json:"occurrence" validate:"min=0"` // 0 selects every occurrence
}

// Result is the outcome of one locate call. Offsets refer to the text after
// normalization, which is the caller's text when normalization is off
type Result struct {
	Occurrences []quote.Occurrence `json:"occurrences"`
	Exclusions  []quote.Span       `json:"exclusions"`
	Ranges      []quote.Span       `json:"ranges"`
	Indices     []int              `json:"indices"`
	Tokens      []string           `json:"tokens"` // surviving token strings, same order as Indices
	Selected    int                `json:"selected"`

	EngineVersion string `json:"engine_version"`
}

// Found reports whether the quote occurred at all
func (r Result) Found() bool { return len(r.Occurrences) > 0 }
