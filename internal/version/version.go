// Package version exposes build information injected at link time.
package version

// These variables are overridden with -ldflags "-X ..." during release builds.
//
//nolint:gochecknoglobals // Link-time injected build metadata.
var (
	// Version is the semantic version of the build.
	Version = "0.1.0"
	// Commit is the git commit the build was made from.
	Commit = "none"
	// BuildTime is the timestamp of the build.
	BuildTime = "unknown"
)

// Short returns the version string only.
func Short() string {
	return Version
}

// Full returns the version together with commit and build time.
func Full() string {
	return "version: " + Version + ", commit: " + Commit + ", built at: " + BuildTime
}
