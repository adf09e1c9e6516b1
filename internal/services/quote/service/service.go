// Package service implements the quote locator
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"origquote/internal/core/normalize"
	"origquote/internal/core/quote"
	"origquote/internal/core/version"
	"origquote/internal/modkit/scope"
	perr "origquote/internal/platform/errors"
	"origquote/internal/platform/logger"
	str "origquote/internal/platform/strings"
	"origquote/internal/platform/validate"
	"origquote/internal/services/quote/domain"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

// Config for the locator
type Config struct {
	Normalize    normalize.Options
	MatchTimeout time.Duration // <= 0 means no limit
	CacheSize    int           // <= 0 disables the compiled pattern cache
	Workers      int           // LocateBatch concurrency, defaults to 1
}

// Locator implements domain.LocatorPort
type Locator struct {
	cfg     Config
	norm    *normalize.Normalizer
	cache   *lru.Cache[string, *quote.Pattern]
	log     *logger.Logger
	version string
}

var _ domain.LocatorPort = (*Locator)(nil)

// New constructs a locator; log may be nil to use the root logger
func New(cfg Config, log *logger.Logger) (*Locator, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if log == nil {
		log = logger.Named("quote")
	}
	l := &Locator{
		cfg:     cfg,
		norm:    normalize.New(cfg.Normalize),
		log:     log,
		version: version.Info().String(),
	}
	if cfg.CacheSize > 0 {
		c, err := lru.New[string, *quote.Pattern](cfg.CacheSize)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "pattern cache")
		}
		l.cache = c
	}
	return l, nil
}

// Config returns the effective configuration
func (l *Locator) Config() Config { return l.cfg }

// CachedPatterns returns the number of compiled patterns held in the cache
func (l *Locator) CachedPatterns() int {
	if l.cache == nil {
		return 0
	}
	return l.cache.Len()
}

// Locate satisfies domain.LocatorPort
func (l *Locator) Locate(ctx context.Context, req domain.Request) (domain.Result, error) {
	ctx = withCall(ctx)
	log := l.logFor(ctx)
	start := time.Now()

	res, err := l.locate(ctx, req)
	if err != nil {
		log.Warn().Err(err).
			Str("code", perr.CodeOf(err).String()).
			Int("occurrence", req.Occurrence).
			Msg("locate failed")
		return domain.Result{}, err
	}

	log.Debug().
		Int("quote_len", str.RuneLen(req.Quote)).
		Int("occurrences", len(res.Occurrences)).
		Int("selected", res.Selected).
		Int("tokens", len(res.Indices)).
		Dur("elapsed", time.Since(start)).
		Msg("located")
	return res, nil
}

func (l *Locator) locate(ctx context.Context, req domain.Request) (domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}
	if err := validate.Struct(req); err != nil {
		return domain.Result{}, perr.WithOp(err, "locate")
	}

	// the caller's text must be single-space delimited before any cleanup,
	// and stay so after it; both checks run even when nothing matches
	if _, _, err := quote.Tokenize(req.Text); err != nil {
		return domain.Result{}, perr.WithOp(err, "tokenize")
	}
	q := l.norm.Normalize(req.Quote)
	text := l.norm.Normalize(req.Text)
	stripped, tokens, err := quote.Tokenize(text)
	if err != nil {
		return domain.Result{}, perr.WithOp(err, "tokenize")
	}
	p, err := l.pattern(q)
	if err != nil {
		return domain.Result{}, perr.WithOp(err, "compile")
	}
	occs, err := quote.Search(p, text)
	if err != nil {
		return domain.Result{}, err
	}

	res := domain.Result{
		Occurrences:   occs,
		Exclusions:    quote.Exclusions(occs),
		Ranges:        []quote.Span{},
		Indices:       []int{},
		Tokens:        []string{},
		Selected:      req.Occurrence,
		EngineVersion: l.version,
	}
	// selecting all of nothing is an empty answer, a missing ordinal is not
	if len(occs) == 0 && req.Occurrence == quote.All {
		return res, nil
	}

	al, err := quote.Align(occs, text, res.Exclusions, req.Occurrence)
	if err != nil {
		return domain.Result{}, err
	}
	res.Ranges = al.Ranges
	res.Indices = al.Indices
	for _, i := range al.Indices {
		tk := tokens[i]
		res.Tokens = append(res.Tokens, str.RuneSlice(stripped, tk.Start, tk.End))
	}
	return res, nil
}

// LocateBatch satisfies domain.LocatorPort
func (l *Locator) LocateBatch(ctx context.Context, reqs []domain.Request) ([]domain.Result, error) {
	out := make([]domain.Result, len(reqs))
	if len(reqs) == 0 {
		return out, nil
	}
	ctx = withCall(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.cfg.Workers)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			res, err := l.Locate(gctx, req)
			if err != nil {
				return perr.WithOp(err, fmt.Sprintf("batch[%d]", i))
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// pattern compiles q, going through the cache when enabled
func (l *Locator) pattern(q string) (*quote.Pattern, error) {
	key := strings.TrimSpace(q)
	if l.cache != nil {
		if p, ok := l.cache.Get(key); ok {
			return p, nil
		}
	}
	p, err := quote.CompileWithOptions(key, quote.Options{MatchTimeout: l.cfg.MatchTimeout})
	if err != nil {
		return nil, err
	}
	if l.cache != nil {
		l.cache.Add(key, p)
	}
	return p, nil
}

var newCallID = uuid.NewString // seam

// withCall stamps a fresh call id unless ctx already carries one
func withCall(ctx context.Context) context.Context {
	if logger.CallID(ctx) != "" {
		return ctx
	}
	return logger.WithCall(ctx, newCallID())
}

func (l *Locator) logFor(ctx context.Context) *logger.Logger {
	lc := l.log.With().Str("call_id", logger.CallID(ctx))
	if sc := scope.From(ctx); len(sc.Values) > 0 {
		lc = lc.Fields(sc.Fields())
	}
	ll := lc.Logger()
	return &ll
}
