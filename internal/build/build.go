// Package build holds build-time information.
package build

// Version and Commit are set through linker flags, e.g.
// -ldflags "-X github.com/fractary/forge/internal/build.Version=v1.2.0".
var (
	Version = "dev"
	Commit  = "none"
)

// String renders the version with its commit when one was recorded.
func String() string {
	if Commit == "" || Commit == "none" {
		return Version
	}
	return Version + " (" + Commit + ")"
}
