// Package version reports build information for dbtargets.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   string // Set via ldflags.
	BuildDate string // Set via ldflags.

	Revision, Modified = readVCS()
	GoVersion          = runtime.Version()
	Platform           = runtime.GOOS + "/" + runtime.GOARCH
)

// Info is a snapshot of the build information.
type Info struct {
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Modified  bool   `json:"modified,omitempty"`
}

// Get returns the build information of the running binary.
func Get() Info {
	return Info{
		Version:   GetVersion(),
		Revision:  Revision,
		BuildDate: BuildDate,
		GoVersion: GoVersion,
		Platform:  Platform,
		Modified:  Modified,
	}
}

func (i Info) String() string {
	rev := i.Revision
	if i.Modified {
		rev += "-dirty"
	}

	return fmt.Sprintf("%s (%s, %s, %s)", i.Version, rev, i.GoVersion, i.Platform)
}

// GetVersion returns the ldflags version, then the module version recorded
// by go install, then the VCS revision.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}

	return Revision
}

func readVCS() (string, bool) {
	rev := "unknown"

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return rev, false
	}

	modified := false

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value
			if len(rev) > 7 {
				rev = rev[:7]
			}

		case "vcs.modified":
			modified = v.Value == "true"
		}
	}

	return rev, modified
}
