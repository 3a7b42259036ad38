// Package versions exposes build metadata for the plugin-index binary.
package versions

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

const unknown = "unknown"

// Set at build time with -ldflags "-X github.com/muicebot/plugin-index/internal/versions.Version=..."
var (
	Version   = "dev"
	Commit    = unknown
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

// String renders the info on a single line
func (i Info) String() string {
	return fmt.Sprintf("plugin-index %s (commit %s, built %s, %s %s)",
		i.Version, i.Commit, i.BuildDate, i.GoVersion, i.Platform)
}

// Get returns the version info of the running binary
func Get() Info {
	return resolve(Version, Commit, BuildDate, readVCS)
}

// readVCS returns the vcs.revision and vcs.time settings embedded by the go tool.
func readVCS() (revision, stamp string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			stamp = s.Value
		}
	}
	return revision, stamp
}

func resolve(version, commit, buildDate string, vcs func() (string, string)) Info {
	if version == "dev" {
		revision, stamp := vcs()
		if commit == unknown && revision != "" {
			commit = revision
		}
		if buildDate == unknown && stamp != "" {
			buildDate = stamp
		}
		if commit != unknown {
			version = fmt.Sprintf("dev-%.8s", commit)
		}
	}

	if t, err := time.Parse(time.RFC3339, buildDate); err == nil {
		buildDate = t.UTC().Format("2006-01-02 15:04:05 MST")
	}

	return Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}
