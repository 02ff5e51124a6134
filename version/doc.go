// Package version exposes the build metadata of the studentstats binary.
//
// Version, commit, and build time are stamped at link time:
//
//	go build -ldflags "-X github.com/kbukum/studentstats/version.Version=1.0.0" ./cmd/studentstats
//
// Values left empty are filled from the module build info when available.
package version
