package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

var (
	// These variables are set at build time using -ldflags
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info represents version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	IsDirty   bool   `json:"is_dirty"`
}

// GetVersionInfo returns version information, filling gaps from the
// embedded module build info.
func GetVersionInfo() *Info {
	info := &Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
	}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = buildInfo.GoVersion
		for _, setting := range buildInfo.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = setting.Value
				}
			case "vcs.modified":
				info.IsDirty = setting.Value == "true"
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = setting.Value
				}
			}
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// String renders the one-line form printed by --version.
func (i *Info) String() string {
	parts := []string{i.Version}
	if i.GitCommit != "" {
		parts = append(parts, i.GitCommit)
	}
	if i.IsDirty {
		parts = append(parts, "dirty")
	}
	s := strings.Join(parts, "-")
	if i.BuildTime != "" {
		s += fmt.Sprintf(" (built %s)", i.BuildTime)
	}
	return s
}

// GetShortVersion returns the version with the commit appended when known.
func GetShortVersion() string {
	return GetVersionInfo().String()
}
