// Package version reports build information for providerkit binaries.
//
// Values are stamped at link time and fall back to the VCS data the Go
// toolchain embeds:
//
//	go build -ldflags "-X github.com/kbukum/providerkit/version.Version=1.2.0" ./cmd/analytics-demo
package version
