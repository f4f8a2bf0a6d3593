// Package buildinfo reports which build of treematch is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/treematch/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/treematch/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/treematch
//
// Unstamped builds (go install, go run) fall back to the module version and
// VCS settings embedded by the toolchain.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		fill(info)
	}
}

// fill replaces unstamped values with those recorded in info.
func fill(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == "none":
			Commit = s.Value
		case s.Key == "vcs.time" && Date == "unknown":
			Date = s.Value
		}
	}
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s, %s)\n", Version, Commit, Date, runtime.Version())
}
