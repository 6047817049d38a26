// Package version holds build metadata injected at link time:
//
//	go build -ldflags "-X github.com/sheinsight/lockmodule/pkg/version.Version=v1.2.0"
package version

import (
	"fmt"
	"runtime/debug"
)

// Build metadata. Unset values fall back to the module build info.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const revisionKey = "vcs.revision"

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		if setting.Key == revisionKey && Commit == "none" {
			Commit = setting.Value
		}
	}
}

// String renders the metadata as a single line.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
