// Package compileinfo reports which revision of glytrait a binary was built
// from, so that trait tables can be traced back to the formula set that
// produced them.
package compileinfo

import (
	"fmt"
	"os"
	"runtime/debug"
)

// Version may be set at link time, e.g.
// go build -ldflags "-X github.com/carbocation/glytrait/compileinfo.Version=v1.2.0"
var Version string

type CompileInfo struct {
	Package    string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	mod := ""
	if c.Modified {
		mod = " (with uncommitted changes)"
	}

	version := c.Version
	if version == "" {
		version = "(devel)"
	}

	if c.Commit == "" {
		return fmt.Sprintf("%s %s, built with %s", c.Package, version, c.GoVersion)
	}

	return fmt.Sprintf("%s %s, built with %s from commit %s at %s%s", c.Package, version, c.GoVersion, c.Commit, c.CommitTime, mod)
}

// Get collects the build information embedded by the Go toolchain.
func Get() CompileInfo {
	out := CompileInfo{Package: "glytrait", Version: Version}

	z, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.GoVersion = z.GoVersion
	if z.Path != "" {
		out.Package = z.Path
	}
	if out.Version == "" && z.Main.Version != "" && z.Main.Version != "(devel)" {
		out.Version = z.Main.Version
	}
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

func PrintToStdErr() {
	fmt.Fprintf(os.Stderr, "%s\n", Get())
}
