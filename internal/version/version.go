// Package version holds the application version, overridden at build time with
// -ldflags "-X github.com/tahirturgut/exchange/internal/version.Version=...".
package version

// Version is the application version.
var Version = "0.1.0-dev"
