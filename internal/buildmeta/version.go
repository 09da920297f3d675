// Package buildmeta holds build-time version information for the azdhooks binary.
//
// Release builds override the defaults with:
//
//	go build -ldflags="-X github.com/devantler-tech/azdhooks/internal/buildmeta.Version=v0.3.0 \
//	  -X github.com/devantler-tech/azdhooks/internal/buildmeta.Commit=$(git rev-parse HEAD)"
//
//nolint:gochecknoglobals
package buildmeta

import "fmt"

var (
	// Version is the semantic version of the build (e.g., "v0.3.0").
	Version = "dev"
	// Commit is the Git SHA of the build.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)

// Format renders the version line shown by `azdhooks --version`.
func Format(version, commit, date string) string {
	return fmt.Sprintf("%s (built on %s from Git SHA %s)", version, date, commit)
}
