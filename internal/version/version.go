// Package version holds the tool version.
package version

// Version is the versioner release version. Overridden at build time via
// -ldflags "-X versioner/internal/version.Version=...".
var Version = "0.1.0-dev"
