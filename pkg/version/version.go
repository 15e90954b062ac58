// Package version reports the build version of ecoimpact.
package version

// Set at build time with
//
//	-ldflags "-X github.com/ecobazaarx/ecoimpact/pkg/version.version=v1.2.3 ..."
//
//nolint:gochecknoglobals // Overridden by the linker.
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// GetVersion returns the release version, or "dev" for local builds.
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return buildDate
}

// String returns the long version line printed by --version.
func String() string {
	return version + " (commit " + gitCommit + ", built " + buildDate + ")"
}
