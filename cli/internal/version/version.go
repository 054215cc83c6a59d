// Package version reports the psyker build.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Overridden at link time with -X.
var (
	Version   = "0.1.0"
	BuildDate = ""
	GitCommit = ""
)

// Info describes the running binary.
type Info struct {
	Version   string
	BuildDate string
	GitCommit string
	Modified  bool
	GoVersion string
	Platform  string
}

// Get returns the build information. Commit and date fall back to the VCS
// stamp the Go toolchain embeds.
func Get() Info {
	info := Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.fromSettings(bi.Settings)
	}
	if info.GitCommit == "" {
		info.GitCommit = "unknown"
	}
	if info.BuildDate == "" {
		info.BuildDate = "unknown"
	}
	return info
}

func (i *Info) fromSettings(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if i.GitCommit == "" {
				i.GitCommit = s.Value
			}
		case "vcs.time":
			if i.BuildDate == "" {
				i.BuildDate = s.Value
			}
		case "vcs.modified":
			i.Modified = s.Value == "true"
		}
	}
}

func (i Info) String() string {
	return fmt.Sprintf("psyker %s (%s, %s)", i.Version, i.Platform, i.GoVersion)
}

// Long is the multi-line form printed by psyker version --long.
func (i Info) Long() string {
	commit := i.GitCommit
	if i.Modified {
		commit += " (modified)"
	}
	return fmt.Sprintf("psyker %s\ncommit:   %s\nbuilt:    %s\nplatform: %s\ngo:       %s",
		i.Version, commit, i.BuildDate, i.Platform, i.GoVersion)
}
