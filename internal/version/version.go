package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the semantic version (set by ldflags during build)
	Version = "dev"

	// GitCommit is the git commit hash (set by ldflags during build)
	GitCommit = ""

	// BuildDate is the build date (set by ldflags during build)
	BuildDate = ""
)

// Info describes the running advisor binary
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the version information
func Get() Info {
	return Info{
		Version:   GetVersion(),
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// GetVersion returns the ldflags version, then the module version recorded
// in the binary, then "dev".
func GetVersion() string {
	if Version != "" && Version != "dev" {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			return info.Main.Version
		}
	}

	return "dev"
}

// String renders the one-line form printed by the version command.
func (i Info) String() string {
	version := i.Version
	if len(i.GitCommit) >= 7 {
		version = fmt.Sprintf("%s-%s", version, i.GitCommit[:7])
	}

	if i.BuildDate != "" {
		return fmt.Sprintf("i2p %s (built %s, %s, %s)", version, i.BuildDate, i.GoVersion, i.Platform)
	}
	return fmt.Sprintf("i2p %s (%s, %s)", version, i.GoVersion, i.Platform)
}
