package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build variables set via ldflags:
// -X 'github.com/longkey1/chenai/internal/version.Version=v1.0.0'
// -X 'github.com/longkey1/chenai/internal/version.CommitSHA=abc123'
// -X 'github.com/longkey1/chenai/internal/version.BuildTime=2025-01-01T00:00:00Z'
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildTime = "unknown"
)

// Short returns just the version number.
func Short() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// Info returns the version, commit, build time and Go version.
func Info() string {
	commit := CommitSHA
	if commit == "unknown" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					commit = s.Value
					break
				}
			}
		}
	}
	return fmt.Sprintf("chenai %s\n  commit: %s\n  built:  %s\n  go:     %s %s/%s",
		Short(), commit, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
