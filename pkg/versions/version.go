// Package versions reports the build identity of mapmarkers.
package versions

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

const (
	unknown    = "unknown"
	devVersion = "dev"

	// shortCommitLen is how much of the commit a dev build version carries
	shortCommitLen = 8
)

// Set with -ldflags "-X github.com/arenarium/mapmarkers/pkg/versions.Version=..."
var (
	Version   = devVersion
	Commit    = unknown
	BuildDate = unknown
)

// VersionInfo describes the running binary
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// String renders the info on one line
func (v VersionInfo) String() string {
	return fmt.Sprintf("mapmarkers %s (commit %s, built %s, %s %s)",
		v.Version, v.Commit, v.BuildDate, v.GoVersion, v.Platform)
}

// GetVersionInfo returns the version of the running binary
func GetVersionInfo() VersionInfo {
	var settings []debug.BuildSetting
	if info, ok := debug.ReadBuildInfo(); ok {
		settings = info.Settings
	}
	return resolve(Version, Commit, BuildDate, settings)
}

// resolve fills unset ldflags values from the VCS stamps go build records. A dev build
// is named after its commit.
func resolve(version, commit, buildDate string, settings []debug.BuildSetting) VersionInfo {
	if version == devVersion {
		for _, s := range settings {
			switch {
			case s.Key == "vcs.revision" && commit == unknown:
				commit = s.Value
			case s.Key == "vcs.time" && buildDate == unknown:
				buildDate = s.Value
			}
		}
	}

	if t, err := time.Parse(time.RFC3339, buildDate); err == nil {
		buildDate = t.UTC().Format("2006-01-02 15:04:05 MST")
	}

	if version == devVersion {
		version = "build-" + commit[:min(len(commit), shortCommitLen)]
	}

	return VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}
