package module

import (
	"time"

	"origquote/internal/platform/config"
)

// Options holds configuration settings for the quote module
type Options struct {
	Normalize    string // none | nfc | nfd; empty leaves the configured value
	StripFormat  bool   // applied together with Normalize when Normalize is set
	MatchTimeout time.Duration
	CacheSize    int
	Workers      int
}

// FromConfig extracts Options from CORE_QUOTE_* values
func FromConfig(cfg config.Conf) Options {
	qc := cfg.Prefix("CORE_QUOTE_")
	return Options{
		Normalize:    qc.MayEnum("NORMALIZE", "none", "none", "nfc", "nfd"),
		StripFormat:  qc.MayBool("STRIP_FORMAT", false),
		MatchTimeout: qc.MayDuration("MATCH_TIMEOUT", 2*time.Second),
		CacheSize:    qc.MayInt("CACHE_SIZE", 128),
		Workers:      qc.MayInt("WORKERS", 4),
	}
}

// merge layers overrides onto cfg; zero values leave cfg alone.
// A negative MatchTimeout or CacheSize switches the feature off
func merge(cfg, overrides Options) Options {
	if overrides.Normalize != "" {
		cfg.Normalize = overrides.Normalize
		cfg.StripFormat = overrides.StripFormat
	}
	if overrides.MatchTimeout != 0 {
		cfg.MatchTimeout = overrides.MatchTimeout
	}
	if overrides.CacheSize != 0 {
		cfg.CacheSize = overrides.CacheSize
	}
	if overrides.Workers != 0 {
		cfg.Workers = overrides.Workers
	}
	return cfg
}
