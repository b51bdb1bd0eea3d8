// Package version provides build version information for the demo-assets
// binary.
//
// Version, commit and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/demoassets/version.Version=1.0.0"
package version
