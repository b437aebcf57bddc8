// Package buildinfo holds the single source of truth for cgwt's version
// string, mirroring the teacher's version.go pattern but collapsed to one
// constant rather than three separately-set ldflags variables.
package buildinfo

// Version is overridden at link time via:
//
//	go build -ldflags "-X github.com/alexisbeaulieu97/cgwt/internal/buildinfo.Version=v1.0.0"
var Version = "0.1.0"
