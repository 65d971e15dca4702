package version

// Version is stamped at build time via -ldflags "-X parityshell/version.Version=...".
var Version = "dev"

// Get returns the current version, falling back to "dev" for local builds.
func Get() string {
	if Version == "" {
		return "dev"
	}
	return Version
}
