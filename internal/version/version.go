// Package version exposes build metadata stamped in via ldflags.
package version

//nolint:revive // Stamped at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
