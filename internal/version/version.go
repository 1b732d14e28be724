// Package version holds build metadata injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/MrSnakeDoc/bookmarks/internal/version.Version=v1.2.0 \
//	  -X github.com/MrSnakeDoc/bookmarks/internal/version.Commit=$(git rev-parse --short HEAD)"
package version

import (
	"fmt"
	"runtime"
	"time"
)

var (
	Version   = "dev"                           // ex: v0.1.0
	Commit    = "none"                          // ex: abcd123
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2025-08-11T18:42:00Z
	GoVersion = runtime.Version()               // go version
)

// String returns a one-line summary, ex: "v0.1.0 (abcd123, go1.24.0)".
func String() string {
	return fmt.Sprintf("%s (%s, %s)", Version, Commit, GoVersion)
}
