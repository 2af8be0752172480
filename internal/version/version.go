package version

import (
	"fmt"
	"runtime"
	"time"
)

var (
	version      = ""                     // Injected with a linker flag
	buildDate    = "1970-01-01T00:00:00Z" // Injected with a linker flag
	gitCommit    = ""                     // Injected with a linker flag
	gitTreeState = ""                     // Injected with a linker flag
)

// Version describes the build of the running binary.
type Version struct {
	// Version is a human-friendly version string.
	Version   string    `json:"version"`
	BuildDate time.Time `json:"buildDate"`
	// GitCommit is the SHA of the last commit included in this build.
	GitCommit string `json:"gitCommit"`
	// GitTreeDirty is true if the source tree had uncommitted changes at build
	// time.
	GitTreeDirty bool   `json:"gitTreeDirty"`
	GoVersion    string `json:"goVersion"`
	Compiler     string `json:"compiler"`
	Platform     string `json:"platform"`
}

var ver = newVersion(version, buildDate, gitCommit, gitTreeState)

func newVersion(v, date, commit, treeState string) Version {
	// A malformed build date is not worth refusing to start over.
	built, _ := time.Parse(time.RFC3339, date)
	ver := Version{
		Version:      v,
		BuildDate:    built,
		GitCommit:    commit,
		GitTreeDirty: treeState != "clean",
		GoVersion:    runtime.Version(),
		Compiler:     runtime.Compiler,
		Platform:     fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	if ver.Version != "" && ver.GitCommit != "" && !ver.GitTreeDirty {
		return ver
	}
	// Builds from anything but a tagged, clean tree are development builds.
	ver.Version = "devel+unknown"
	if len(commit) >= 7 {
		ver.Version = "devel+" + commit[:7]
	}
	if ver.GitTreeDirty {
		ver.Version += ".dirty"
	}
	return ver
}

// GetVersion returns information about the running build.
func GetVersion() Version {
	return ver
}
