package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"origquote/internal/core/normalize"
	"origquote/internal/modkit/scope"
	perr "origquote/internal/platform/errors"
	"origquote/internal/platform/logger"
	kit "origquote/internal/platform/testkit"
	"origquote/internal/services/quote/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	genesis = "בְּרֵאשִׁ֖ית בָּרָ֣א אֱלֹהִ֑ים אֵ֥ת הַשָּׁמַ֖יִם וְאֵ֥ת הָאָֽרֶץ׃"
	luke    = "ἐπερωτηθεὶς δὲ ὑπὸ τῶν Φαρισαίων πότε ἔρχεται ἡ Βασιλεία τοῦ Θεοῦ ἀπεκρίθη αὐτοῖς καὶ εἶπεν οὐκ ἔρχεται ἡ Βασιλεία τοῦ Θεοῦ μετὰ παρατηρήσεως"
)

func newLocator(t *testing.T, cfg Config) *Locator {
	t.Helper()
	nop := zerolog.Nop()
	l, err := New(cfg, &nop)
	require.NoError(t, err)
	return l
}

// tokensAt picks whitespace tokens of text by index
func tokensAt(text string, idx ...int) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, fields[i])
	}
	return out
}

func TestLocate_GapQuote(t *testing.T) {
	l := newLocator(t, Config{CacheSize: 8})
	res, err := l.Locate(context.Background(), domain.Request{Quote: "אֵ֥ת הַשָּׁמַ֖יִם & הָאָֽרֶץ", Text: genesis, Occurrence: 1})
	require.NoError(t, err)

	assert.True(t, res.Found())
	assert.Equal(t, []int{3, 4, 6}, res.Indices)
	assert.Equal(t, tokensAt(genesis, 3, 4, 6), res.Tokens)
	assert.Len(t, res.Ranges, 3)
	assert.Len(t, res.Exclusions, 1)
	assert.Equal(t, 1, res.Selected)
	assert.Equal(t, "origquote@dev", res.EngineVersion)
}

func TestLocate_AllOccurrences(t *testing.T) {
	l := newLocator(t, Config{})
	res, err := l.Locate(context.Background(), domain.Request{Quote: "Βασιλεία & Θεοῦ", Text: luke})
	require.NoError(t, err)

	assert.Len(t, res.Occurrences, 2)
	assert.Equal(t, []int{8, 10, 18, 20}, res.Indices)
	assert.Equal(t, tokensAt(luke, 8, 10, 18, 20), res.Tokens)
	assert.Equal(t, 0, res.Selected)
}

func TestLocate_NotFoundAllIsEmpty(t *testing.T) {
	l := newLocator(t, Config{})
	res, err := l.Locate(context.Background(), domain.Request{Quote: "Ἰερουσαλήμ", Text: luke, Occurrence: 0})
	require.NoError(t, err)

	assert.False(t, res.Found())
	assert.NotNil(t, res.Indices)
	assert.Empty(t, res.Indices)
	assert.Empty(t, res.Tokens)
	assert.Empty(t, res.Exclusions)
}

func TestLocate_Errors(t *testing.T) {
	l := newLocator(t, Config{})
	cases := []struct {
		name  string
		req   domain.Request
		code  perr.ErrorCode
		field string
	}{
		{"missing quote", domain.Request{Text: luke}, perr.ErrorCodeInvalidArgument, "quote"},
		{"blank quote", domain.Request{Quote: "  ", Text: luke}, perr.ErrorCodeInvalidArgument, "quote"},
		{"missing text", domain.Request{Quote: "a"}, perr.ErrorCodeInvalidArgument, "text"},
		{"negative occurrence", domain.Request{Quote: "a", Text: "a", Occurrence: -1}, perr.ErrorCodeInvalidArgument, "occurrence"},
		{"gap only quote", domain.Request{Quote: "& &", Text: luke}, perr.ErrorCodePatternCompile, "quote"},
		{"malformed text without a match", domain.Request{Quote: "zz", Text: "a  b"}, perr.ErrorCodeMalformedInput, "text"},
		{"ordinal beyond matches", domain.Request{Quote: "Βασιλεία", Text: luke, Occurrence: 3}, perr.ErrorCodeOccurrenceOutOfRange, "occurrence"},
		{"first of no matches", domain.Request{Quote: "zz", Text: "a b c", Occurrence: 1}, perr.ErrorCodeOccurrenceOutOfRange, "occurrence"},
		{"second of no matches", domain.Request{Quote: "zz", Text: "a b c", Occurrence: 2}, perr.ErrorCodeOccurrenceOutOfRange, "occurrence"},
		{"vertical tab", domain.Request{Quote: "c", Text: "a\vb c", Occurrence: 1}, perr.ErrorCodeMalformedInput, "text"},
		{"form feed", domain.Request{Quote: "c", Text: "a\fb c", Occurrence: 1}, perr.ErrorCodeMalformedInput, "text"},
		{"next line", domain.Request{Quote: "c", Text: "a\u0085b c", Occurrence: 1}, perr.ErrorCodeMalformedInput, "text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.Locate(context.Background(), tc.req)
			kit.MustCode(t, err, tc.code)
			e, ok := perr.As(err)
			require.True(t, ok)
			assert.Equal(t, tc.field, e.Field())
		})
	}
}

func TestLocate_CanceledContext(t *testing.T) {
	l := newLocator(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Locate(ctx, domain.Request{Quote: "a", Text: "a"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocate_Normalization(t *testing.T) {
	text := "caf\u00e9 au lait"
	req := domain.Request{Quote: "cafe\u0301", Text: text, Occurrence: 1}

	plain := newLocator(t, Config{})
	_, err := plain.Locate(context.Background(), req)
	kit.MustCode(t, err, perr.ErrorCodeOccurrenceOutOfRange)

	nfc := newLocator(t, Config{Normalize: normalize.Options{Form: normalize.FormNFC}})
	res, err := nfc.Locate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.Indices)
	assert.Equal(t, []string{"caf\u00e9"}, res.Tokens)

	strip := newLocator(t, Config{Normalize: normalize.Options{StripFormat: true}})
	res, err = strip.Locate(context.Background(), domain.Request{Quote: "foo", Text: "x fo\u200do bar", Occurrence: 1})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, res.Indices)
	assert.Equal(t, []string{"foo"}, res.Tokens, "tokens come from the normalized text")
}

func TestLocate_PatternCache(t *testing.T) {
	l := newLocator(t, Config{CacheSize: 2})
	ctx := context.Background()
	for _, q := range []string{"Βασιλεία", "Βασιλεία τοῦ Θεοῦ", "Βασιλεία & Θεοῦ", "Βασιλεία & Θεοῦ "} {
		_, err := l.Locate(ctx, domain.Request{Quote: q, Text: luke})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, l.CachedPatterns())

	// failures are never cached
	_, err := l.Locate(ctx, domain.Request{Quote: "&", Text: luke})
	kit.MustCode(t, err, perr.ErrorCodePatternCompile)
	assert.Equal(t, 2, l.CachedPatterns())

	off := newLocator(t, Config{})
	_, err = off.Locate(ctx, domain.Request{Quote: "Βασιλεία", Text: luke})
	require.NoError(t, err)
	assert.Zero(t, off.CachedPatterns())
}

func TestLocate_LogsCallAndScope(t *testing.T) {
	var buf bytes.Buffer
	lg := zerolog.New(&buf).Level(zerolog.DebugLevel)
	l, err := New(Config{}, &lg)
	require.NoError(t, err)

	ctx := logger.WithCall(context.Background(), "call-1")
	ctx = scope.With(ctx, map[string]string{"doc": "luke"})
	_, err = l.Locate(ctx, domain.Request{Quote: "Βασιλεία", Text: luke, Occurrence: 1})
	require.NoError(t, err)

	out := buf.String()
	kit.MustContain(t, out, `"call_id":"call-1"`)
	kit.MustContain(t, out, `"doc":"luke"`)
	kit.MustContain(t, out, `"occurrences":2`)
	kit.MustContain(t, out, `"message":"located"`)

	buf.Reset()
	kit.Swap(t, &newCallID, func() string { return "fresh-id" })
	_, err = l.Locate(context.Background(), domain.Request{Quote: "&", Text: luke})
	require.Error(t, err)
	out = buf.String()
	kit.MustContain(t, out, `"level":"warn"`)
	kit.MustContain(t, out, `"code":"pattern_compile"`)
	kit.MustContain(t, out, `"call_id":"fresh-id"`)
}

func TestLocateBatch_KeepsOrder(t *testing.T) {
	l := newLocator(t, Config{Workers: 3, CacheSize: 4})
	reqs := []domain.Request{
		{Quote: "Βασιλεία", Text: luke, Occurrence: 1},
		{Quote: "Βασιλεία", Text: luke, Occurrence: 2},
		{Quote: "אֵ֥ת הַשָּׁמַ֖יִם & הָאָֽרֶץ", Text: genesis, Occurrence: 1},
		{Quote: "Φαρισαίων & Βασιλεία", Text: luke, Occurrence: 1},
		{Quote: "Ἰερουσαλήμ", Text: luke, Occurrence: 0},
	}
	out, err := l.LocateBatch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, out, len(reqs))

	assert.Equal(t, []int{8}, out[0].Indices)
	assert.Equal(t, []int{18}, out[1].Indices)
	assert.Equal(t, []int{3, 4, 6}, out[2].Indices)
	assert.Equal(t, []int{4, 8}, out[3].Indices)
	assert.Empty(t, out[4].Indices)
}

func TestLocateBatch_FailsFast(t *testing.T) {
	l := newLocator(t, Config{Workers: 1})
	reqs := []domain.Request{
		{Quote: "Βασιλεία", Text: luke},
		{Quote: "Βασιλεία", Text: luke, Occurrence: 9},
		{Quote: "Βασιλεία", Text: luke},
	}
	out, err := l.LocateBatch(context.Background(), reqs)
	assert.Nil(t, out)
	kit.MustCode(t, err, perr.ErrorCodeOccurrenceOutOfRange)
	e, _ := perr.As(err)
	assert.Equal(t, "batch[1]", e.Op())
}

func TestLocateBatch_EmptyAndCanceled(t *testing.T) {
	l := newLocator(t, Config{})
	out, err := l.LocateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.LocateBatch(ctx, []domain.Request{{Quote: "a", Text: "a"}})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNew_Defaults(t *testing.T) {
	l, err := New(Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, l.Config().Workers)
	assert.Zero(t, l.CachedPatterns())
}
