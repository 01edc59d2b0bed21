// Package buildinfo reports the rampboard version.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/rampboard/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/rampboard/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/rampboard
//
// Binaries installed with "go install" fall back to the module version and
// VCS settings recorded by the toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var fillOnce sync.Once

// fill replaces unset fields with what the Go toolchain embedded.
func fill() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
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

// Info returns version, commit and build date.
func Info() (version, commit, date string) {
	fillOnce.Do(fill)
	return Version, Commit, Date
}

// Template returns the cobra version template.
func Template() string {
	v, c, d := Info()
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", v, c, d)
}

// UserAgent identifies the dashboard in the Server header.
func UserAgent() string {
	v, _, _ := Info()
	return "rampboard/" + v
}

// Current returns the version alone.
func Current() string {
	v, _, _ := Info()
	return v
}
