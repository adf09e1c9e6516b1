package quote

import (
	"strings"
	"time"
	"unicode"

	perr "origquote/internal/platform/errors"

	"github.com/dlclark/regexp2"
)

// GapMarker is the quote word that stands for "skip an unknown amount of text"
const GapMarker = "&"

// gapGroup is a lazy wildcard; with Singleline the dot also crosses newlines
const gapGroup = "(.*?)"

// Options controls pattern compilation
type Options struct {
	// MatchTimeout bounds a single search; 0 means no limit
	MatchTimeout time.Duration
}

// Pattern is a compiled quote
type Pattern struct {
	Quote string // the stripped quote
	Expr  string // the regular expression handed to the engine
	Gaps  int    // number of gap groups, adjacent markers counted once

	re *regexp2.Regexp
}

// String returns the compiled expression
func (p *Pattern) String() string { return p.Expr }

// Compile compiles quote with default options
func Compile(quote string) (*Pattern, error) {
	return CompileWithOptions(quote, Options{})
}

// CompileWithOptions strips quote and compiles it. Each whitespace-delimited
// "&" becomes a lazy wildcard group; every other character, including the
// whitespace between words, is escaped and must match verbatim. Markers
// separated only by whitespace merge into one group, so repeating a marker
// never changes the result
func CompileWithOptions(quote string, opts Options) (*Pattern, error) {
	q := strings.TrimSpace(quote)
	if q == "" {
		return nil, perr.WithField(perr.PatternCompilef("empty quote"), "quote")
	}

	var (
		b        strings.Builder
		gaps     int
		literals int
		pending  string // whitespace run not yet written
		prevGap  bool
	)
	for _, piece := range splitRuns(q) {
		switch {
		case isSpaceRun(piece):
			pending = piece
		case piece == GapMarker && prevGap:
			pending = ""
		case piece == GapMarker:
			b.WriteString(regexp2.Escape(pending))
			b.WriteString(gapGroup)
			pending, prevGap = "", true
			gaps++
		default:
			b.WriteString(regexp2.Escape(pending))
			b.WriteString(regexp2.Escape(piece))
			pending, prevGap = "", false
			literals++
		}
	}
	if literals == 0 {
		return nil, perr.WithField(perr.PatternCompilef("quote %q has no literal text", q), "quote")
	}

	expr := b.String()
	re, err := regexp2.Compile(expr, regexp2.Singleline)
	if err != nil {
		return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodePatternCompile, "compile quote %q", q), "quote")
	}
	if opts.MatchTimeout > 0 {
		re.MatchTimeout = opts.MatchTimeout
	}
	return &Pattern{Quote: q, Expr: expr, Gaps: gaps, re: re}, nil
}

// splitRuns cuts s into alternating runs of whitespace and non-whitespace,
// so that concatenating the result yields s again
func splitRuns(s string) []string {
	var (
		out   []string
		start int
		prev  bool
	)
	for i, r := range s {
		sp := unicode.IsSpace(r)
		if i > 0 && sp != prev {
			out = append(out, s[start:i])
			start = i
		}
		prev = sp
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func isSpaceRun(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return s != ""
}
