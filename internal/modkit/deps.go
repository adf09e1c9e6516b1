// Package modkit provides module wiring and core deps
package modkit

import (
	"origquote/internal/platform/config"
	"origquote/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log *logger.Logger
	Cfg config.Conf
}

// ZeroOK returns true when deps are safe to use with zero values in tests
func (d Deps) ZeroOK() bool { return true }

// Logger returns d.Log or the root logger when unset
func (d Deps) Logger() *logger.Logger {
	if d.Log == nil {
		return logger.Get()
	}
	return d.Log
}
