// Package version exposes build version metadata, populated at build
// time via -ldflags.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These variables are set at build time using -ldflags.
var (
	// Version is the semantic version of the binary.
	Version = "dev"

	// GitCommit is the git commit hash the binary was built from.
	GitCommit = "unknown"

	// BuildTime is the build timestamp in RFC3339 format.
	BuildTime = "unknown"
)

// BuildInfo contains version and build information.
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build information, falling back to debug build info
// when ldflags were not provided.
func Get() *BuildInfo {
	version := Version
	commit := GitCommit

	if info, ok := debug.ReadBuildInfo(); ok {
		if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
		if commit == "unknown" {
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" {
					commit = setting.Value
					break
				}
			}
		}
	}

	return &BuildInfo{
		Version:   version,
		GitCommit: commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a single-line version summary.
func (b *BuildInfo) String() string {
	return fmt.Sprintf("sitemap %s (%s, %s, %s)", b.Version, b.GitCommit, b.GoVersion, b.Platform)
}
