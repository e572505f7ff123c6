package version

import (
	"runtime"
	"time"
)

// Overridden at build time with -ldflags "-X".
var (
	Version   = "dev"                           // ex: v0.3.0
	Commit    = "none"                          // ex: 4f2c9ab
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2026-10-16T09:12:00Z
	GoVersion = runtime.Version()
)

// UserAgent identifies navdeck on upstream requests.
func UserAgent() string {
	return "navdeck/" + Version + " (" + GoVersion + ")"
}
