// Package version carries build metadata set with -ldflags.
package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String renders the version line printed by the CLI.
func String() string {
	return fmt.Sprintf("vrtypes %s (commit %s, built %s)", Version, GitSHA, BuildTime)
}
