// Package buildinfo carries the version stamped in with -ldflags, e.g.
//
//	-ldflags "-X altimeter/internal/buildinfo.Version=v1.2.0"
package buildinfo

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns a compact build identifier for the boot splash and the
// window title.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		if len(Commit) > 7 {
			return Commit[:7]
		}
		return Commit
	}
	return "dev"
}

// String is the full identifier logged at startup.
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
