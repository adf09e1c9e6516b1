// Package version provides information about the build version of the engine.
package version

// BuildInfo holds version information about the engine build.
type BuildInfo struct {
	Engine  string `json:"engine"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// String renders engine@version, the form stamped on results
func (b BuildInfo) String() string { return b.Engine + "@" + b.Version }

// Info returns the build information. The version, commit, and date variables
// are intended to be set at build time using -ldflags.
func Info() BuildInfo {
	// Set via -ldflags "-X 'origquote/internal/core/version.version=v0.1.0'
	// -X 'origquote/internal/core/version.commit=abcd' -X 'origquote/internal/core/version.date=2026-10-19'"
	return BuildInfo{
		Engine:  "origquote",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
