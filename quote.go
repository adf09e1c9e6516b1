// Package origquote locates quotations inside whitespace-tokenized source
// texts and reports which tokens they cover.
//
// A quote is matched verbatim except for gap markers: a standalone "&" word
// stands for any run of skipped text, and tokens that fall inside a gap are
// left out of the result.
//
//	occs, excl, err := origquote.FindQuote("Βασιλεία & Θεοῦ", text)
//	ranges, indices, err := origquote.AlignQuote(occs, text, excl, origquote.First)
//
// All offsets count Unicode code points, not bytes.
package origquote

import (
	"origquote/internal/core/quote"
	perr "origquote/internal/platform/errors"
	"origquote/internal/services/quote/domain"
)

// Occurrence selectors for AlignQuote and Request.Occurrence
const (
	All   = quote.All
	First = quote.First
)

// GapMarker is the quote word that matches skipped text
const GapMarker = quote.GapMarker

type (
	// Span is a [Start,End) range of code point offsets
	Span = quote.Span
	// Token is one word of a source text
	Token = quote.Token
	// Occurrence is one match of a quote
	Occurrence = quote.Occurrence
	// Request is the input of a Locator call
	Request = domain.Request
	// Result is the output of a Locator call
	Result = domain.Result
	// Locator finds and aligns quotes, see NewLocator
	Locator = domain.LocatorPort
)

// FindQuote compiles quote and returns every occurrence in text together with
// the gap spans of all occurrences
func FindQuote(q, text string) ([]Occurrence, []Span, error) {
	return quote.Find(q, text)
}

// AlignQuote maps occurrences onto the tokens of text. occurrence selects the
// n-th occurrence (1-based) or All. Tokens touching an exclusion span are dropped
func AlignQuote(occs []Occurrence, text string, exclusions []Span, occurrence int) ([]Span, []int, error) {
	res, err := quote.Align(occs, text, exclusions, occurrence)
	if err != nil {
		return nil, nil, err
	}
	return res.Ranges, res.Indices, nil
}

// Tokenize strips text and splits it into single-space delimited tokens
func Tokenize(text string) (string, []Token, error) {
	return quote.Tokenize(text)
}

// IsMalformedInput reports whether err rejects a text that is not single-space delimited
func IsMalformedInput(err error) bool { return perr.IsCode(err, perr.ErrorCodeMalformedInput) }

// IsOccurrenceOutOfRange reports whether err asks for an occurrence that does not exist
func IsOccurrenceOutOfRange(err error) bool {
	return perr.IsCode(err, perr.ErrorCodeOccurrenceOutOfRange)
}

// IsPatternCompile reports whether err rejects a quote that cannot form a pattern
func IsPatternCompile(err error) bool { return perr.IsCode(err, perr.ErrorCodePatternCompile) }

// IsInvalidArgument reports whether err rejects a request argument
func IsInvalidArgument(err error) bool { return perr.IsCode(err, perr.ErrorCodeInvalidArgument) }

// IsMatchTimeout reports whether a search was aborted by the match timeout
func IsMatchTimeout(err error) bool { return perr.IsCode(err, perr.ErrorCodeMatchTimeout) }

// ErrorInfo is the flat form of an error, for callers that render or log it
type ErrorInfo = perr.Wire

// Describe flattens err into an ErrorInfo; nil yields the zero value
func Describe(err error) ErrorInfo { return perr.WireFrom(err) }
