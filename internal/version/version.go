// Package version exposes build-time version information.
package version

import "fmt"

// Set at build time via -ldflags.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String returns a one-line version summary for logs and usage output.
func String() string {
	return fmt.Sprintf("colony-scan %s (%s, built %s)", Version, GitCommit, BuildTime)
}
