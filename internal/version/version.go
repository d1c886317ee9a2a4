// Package version provides build-time version information.
package version

import "fmt"

// Name is the application name shown in titles and logs.
const Name = "Venue Designer"

// These variables are set at build time using -ldflags
var (
	// Version is the semantic version
	Version = "0.1.0"

	// BuildTime is the UTC time when the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// String returns "Venue Designer 0.1.0 (commit, built time)".
func String() string {
	return fmt.Sprintf("%s %s (%s, built %s)", Name, Version, GitCommit, BuildTime)
}
