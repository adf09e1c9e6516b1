// Package module implements the quote module
package module

import (
	"origquote/internal/core/normalize"
	"origquote/internal/modkit"
	mmodule "origquote/internal/modkit/module"
	"origquote/internal/services/quote/domain"
	"origquote/internal/services/quote/service"
)

// Name is the registry name of the quote module
const Name = "quote"

// Ports exposed by the quote module
type Ports struct {
	Locator domain.LocatorPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	name  string
	opts  Options
	ports Ports
}

var (
	_ modkit.Module  = (*Module)(nil)
	_ mmodule.Module = (*Module)(nil)
)

// New constructs the quote module from config merged with overrides and
// registers its ports under the module name
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName(Name),
	}, opts...)...)

	// Merge config + overrides
	cfg := merge(FromConfig(deps.Cfg), overrides)

	form, err := normalize.ParseForm(cfg.Normalize)
	if err != nil {
		return nil, err
	}
	loc, err := service.New(service.Config{
		Normalize:    normalize.Options{Form: form, StripFormat: cfg.StripFormat},
		MatchTimeout: cfg.MatchTimeout,
		CacheSize:    cfg.CacheSize,
		Workers:      cfg.Workers,
	}, deps.Logger())
	if err != nil {
		return nil, err
	}

	m := &Module{deps: deps, name: b.Name, opts: cfg}
	m.ports = Ports{Locator: loc}

	// callers may hand in their own port set, typically a decorated locator
	if p, ok := b.Ports.(Ports); ok && p.Locator != nil {
		m.ports = p
	}

	mmodule.Register(m.name, m.ports)
	return m, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Options returns the merged options the module was built with
func (m *Module) Options() Options { return m.opts }

// Locator is sugar over MustPortsOf for the common case
func (m *Module) Locator() domain.LocatorPort {
	return mmodule.MustPortsOf[domain.LocatorPort](m)
}
