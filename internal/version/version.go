// Package version carries build identification, overridden at link time
// with -ldflags "-X ...".
package version

import "fmt"

var (
	// Version is the release version.
	Version = "dev"
	// GitSHA is the git commit the binary was built from.
	GitSHA = "unknown"
)

// String renders the build identification for startup banners.
func String() string {
	return fmt.Sprintf("%s (%s)", Version, GitSHA)
}
