package version

import "fmt"

// Set at build time via -ldflags; the defaults describe a local dev build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info renders the version line printed by "mtbtimer version".
func Info() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
