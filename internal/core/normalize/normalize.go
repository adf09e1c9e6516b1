// Package normalize prepares quotes and source texts before matching
// Pipeline order
// 1 Sanitize drop NUL, control characters and invalid UTF-8
// 2 Optional Unicode normalization form, NFC or NFD
// 3 Optional removal of format characters (ZWJ, ZWNJ, BOM and friends)
//
// Case and combining marks are always preserved; pointed Hebrew and polytonic
// Greek must come out with their marks intact
package normalize

import (
	"strings"
	"sync"
	"unicode"

	perr "origquote/internal/platform/errors"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Form selects the Unicode normalization form
type Form int

const (
	// FormNone leaves composition as the caller wrote it
	FormNone Form = iota
	// FormNFC composes
	FormNFC
	// FormNFD decomposes
	FormNFD
)

func (f Form) String() string {
	switch f {
	case FormNone:
		return "none"
	case FormNFC:
		return "nfc"
	case FormNFD:
		return "nfd"
	default:
		return "unknown"
	}
}

// ParseForm maps a config value to a Form; the empty string means FormNone
func ParseForm(s string) (Form, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "off":
		return FormNone, nil
	case "nfc":
		return FormNFC, nil
	case "nfd":
		return FormNFD, nil
	default:
		return FormNone, perr.WithField(perr.InvalidArgf("unknown normalization form %q", s), "normalize")
	}
}

// Options controls the optional pipeline stages
type Options struct {
	Form        Form
	StripFormat bool
}

// Enabled reports whether anything beyond Sanitize runs
func (o Options) Enabled() bool { return o.Form != FormNone || o.StripFormat }

// Normalizer is concurrency safe; each call borrows a chain from its pool
type Normalizer struct {
	opts  Options
	chain sync.Pool
}

// New constructs a Normalizer for opts
func New(opts Options) *Normalizer {
	n := &Normalizer{opts: opts}
	n.chain.New = func() any {
		// order matters and mirrors the documented pipeline
		var ts []transform.Transformer
		switch opts.Form {
		case FormNFC:
			ts = append(ts, norm.NFC)
		case FormNFD:
			ts = append(ts, norm.NFD)
		}
		if opts.StripFormat {
			ts = append(ts, runes.Remove(runes.In(unicode.Cf)))
		}
		if len(ts) == 0 {
			return transform.Nop
		}
		return transform.Chain(ts...)
	}
	return n
}

// Options returns the options n was built with
func (n *Normalizer) Options() Options { return n.opts }

// Normalize returns the normalized form of s following the pipeline above
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}

	// 1 sanitize, which also repairs UTF-8
	s = Sanitize(s)
	if !n.opts.Enabled() {
		return s
	}

	// 2-3 transform via pooled chain then reset and return it
	tr := n.chain.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	n.chain.Put(tr)
	if err != nil {
		// input is valid UTF-8 by now, a failure here is not expected
		return s
	}
	return ns
}
