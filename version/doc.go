// Package version embeds build version information.
//
// Version and git metadata are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/whisperbox/version.Version=1.0.0"
//
// When ldflags are absent, git metadata falls back to the VCS stamps the Go
// toolchain records in the build info.
package version
