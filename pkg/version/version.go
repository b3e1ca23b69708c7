// Package version provides build version information.
package version

import "fmt"

// Build information. Populated at build time via ldflags:
//
//	-X github.com/jakga/glotian/pkg/version.Version=v2.1.0
//	-X github.com/jakga/glotian/pkg/version.Commit=abc123
//	-X github.com/jakga/glotian/pkg/version.BuildDate=2026-08-23
var (
	// Version is the semantic version (e.g., "v2.1.0")
	Version = "dev"

	// Commit is the git commit hash
	Commit = "unknown"

	// BuildDate is the build timestamp
	BuildDate = "unknown"
)

// Info returns a formatted version string.
func Info() string {
	return fmt.Sprintf("glotian %s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Short returns just the version number.
func Short() string {
	return Version
}

// Full returns detailed version information.
func Full() string {
	return fmt.Sprintf(`glotian version %s
  commit:     %s
  built:      %s`, Version, Commit, BuildDate)
}
