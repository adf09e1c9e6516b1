package origquote

import (
	"time"

	"origquote/internal/modkit"
	"origquote/internal/platform/config"
	"origquote/internal/platform/logger"
	qmodule "origquote/internal/services/quote/module"
)

// Option overrides the CORE_QUOTE_* environment configuration of NewLocator
type Option func(*locatorCfg)

type locatorCfg struct {
	overrides qmodule.Options
	log       *logger.Logger
}

// WithNormalization selects the Unicode form ("none", "nfc" or "nfd") applied
// to both quote and text, and whether format characters are stripped
func WithNormalization(form string, stripFormat bool) Option {
	return func(c *locatorCfg) {
		if form == "" {
			form = "none"
		}
		c.overrides.Normalize = form
		c.overrides.StripFormat = stripFormat
	}
}

// WithMatchTimeout bounds each search; d <= 0 removes the bound
func WithMatchTimeout(d time.Duration) Option {
	return func(c *locatorCfg) {
		if d <= 0 {
			d = -1
		}
		c.overrides.MatchTimeout = d
	}
}

// WithCacheSize sets how many compiled quotes are kept; n <= 0 disables the cache
func WithCacheSize(n int) Option {
	return func(c *locatorCfg) {
		if n <= 0 {
			n = -1
		}
		c.overrides.CacheSize = n
	}
}

// WithWorkers sets the LocateBatch concurrency
func WithWorkers(n int) Option {
	return func(c *locatorCfg) { c.overrides.Workers = n }
}

// WithLogger routes locator logs to l instead of the LOG_* configured root logger
func WithLogger(l *logger.Logger) Option {
	return func(c *locatorCfg) { c.log = l }
}

// NewLocator builds a Locator from CORE_QUOTE_* environment values with opts
// applied on top
func NewLocator(opts ...Option) (Locator, error) {
	var c locatorCfg
	for _, o := range opts {
		o(&c)
	}
	m, err := qmodule.New(modkit.Deps{Log: c.log, Cfg: config.New()}, c.overrides)
	if err != nil {
		return nil, err
	}
	return m.Locator(), nil
}
