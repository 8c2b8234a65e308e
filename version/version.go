// Package version holds the build metadata stamped into the binary at
// link time.
package version

import "runtime"

// Version is the canonical semantic version, overridden via -ldflags.
var Version = "0.1.0-dev"

// Vcs is the git commit the binary was built from.
var Vcs = ""

// GoVersion is the toolchain that built the binary.
var GoVersion = runtime.Version()
