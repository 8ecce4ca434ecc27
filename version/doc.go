// Package version exposes build information for apikit binaries and the
// User-Agent string the default transport sends.
//
// Values are injected at link time:
//
//	go build -ldflags "-X github.com/kbukum/apikit/version.Version=1.2.0"
package version
