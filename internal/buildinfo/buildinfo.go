// Package buildinfo exposes compile-time metadata shared across the toolkit.
package buildinfo

var (
	// Version is the release version, injected via -ldflags.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// BuildDate is the UTC build timestamp.
	BuildDate = "unknown"
)
