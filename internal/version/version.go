// Package version holds build metadata injected at link time.
package version

import "fmt"

// Set via -ldflags "-X tokencost/internal/version.Version=..." at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns a human-readable version string.
func Info() string {
	return fmt.Sprintf("tokencost %s (commit %s, built %s)", Version, Commit, Date)
}
