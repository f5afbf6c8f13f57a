// Package version carries build metadata, overridden via -ldflags at
// release time.
package version

import (
	"runtime"
	"time"
)

var (
	// Version and Commit keep their dev defaults unless set with
	// -ldflags "-X .../internal/version.Version=v0.1.0".
	Version = "dev"
	Commit  = "none"
	// Without ldflags this falls back to process start time, not build time.
	BuildDate = time.Now().Format(time.RFC3339)
	GoVersion = runtime.Version()
)
