// Package build provides version and build information for forgebee.
// It has no dependencies on other internal packages to avoid import cycles.
package build

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild reports whether this is a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}
