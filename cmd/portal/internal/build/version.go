// Package build carries version metadata stamped into the binary.
//
// Release builds overwrite the defaults with -ldflags:
//
//	go build -ldflags "-X github.com/schwiftylabs/portal/cmd/portal/internal/build.Version=v1.0.0 \
//	  -X github.com/schwiftylabs/portal/cmd/portal/internal/build.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/schwiftylabs/portal/cmd/portal/internal/build.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package build

import (
	"fmt"
	"runtime"
)

// Stamped by the linker; see the package comment.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders a one-line version banner.
func String() string {
	return fmt.Sprintf("portal %s (%s) built %s %s/%s",
		Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}
