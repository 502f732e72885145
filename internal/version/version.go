// Package version holds the twirer build information, set via ldflags.
package version

import "fmt"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// String renders the build information on one line.
func String() string {
	return fmt.Sprintf("twirer %s (commit %s, built %s)", Version, Commit, BuildDate)
}
