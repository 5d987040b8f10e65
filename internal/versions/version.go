// Package versions reports the build version of the audit server.
package versions

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

const unknown = "unknown"

// Set with -ldflags at release time
var (
	// Version is the released version, "dev" for local builds
	Version = "dev"
	// Commit is the git commit of the build
	Commit = unknown
	// BuildDate is the time the binary was built
	BuildDate = unknown
)

// Info describes the running binary
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the version of the running binary
func Get() Info {
	var settings []debug.BuildSetting
	if info, ok := debug.ReadBuildInfo(); ok {
		settings = info.Settings
	}
	return resolve(Version, Commit, BuildDate, settings)
}

// resolve fills dev builds from the VCS stamp the go tool embeds
func resolve(version, commit, buildDate string, settings []debug.BuildSetting) Info {
	if strings.HasPrefix(version, "dev") {
		for _, s := range settings {
			switch s.Key {
			case "vcs.revision":
				if commit == unknown {
					commit = s.Value
				}
			case "vcs.time":
				if buildDate == unknown {
					buildDate = s.Value
				}
			}
		}
	}

	if t, err := time.Parse(time.RFC3339, buildDate); err == nil {
		buildDate = t.UTC().Format("2006-01-02 15:04:05 MST")
	}

	if version == "dev" {
		version = fmt.Sprintf("build-%.*s", 8, commit)
	}

	return Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}
