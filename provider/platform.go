package provider

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform identifies the runtime a provider can run on.
type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformMacOS   Platform = "macos"
	PlatformLinux   Platform = "linux"
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWebGL   Platform = "webgl"
	PlatformEditor  Platform = "editor"
)

var knownPlatforms = []Platform{
	PlatformWindows,
	PlatformMacOS,
	PlatformLinux,
	PlatformIOS,
	PlatformAndroid,
	PlatformWebGL,
	PlatformEditor,
}

var platformAliases = map[string]Platform{
	"darwin": PlatformMacOS,
	"osx":    PlatformMacOS,
	"js":     PlatformWebGL,
	"wasm":   PlatformWebGL,
}

// KnownPlatforms returns every platform ParsePlatform accepts.
func KnownPlatforms() []Platform {
	return append([]Platform(nil), knownPlatforms...)
}

func (p Platform) String() string { return string(p) }

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	for _, known := range knownPlatforms {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePlatform converts a config value into a Platform. Matching is case
// insensitive and accepts GOOS-style aliases such as "darwin".
func ParsePlatform(s string) (Platform, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := platformAliases[name]; ok {
		return alias, nil
	}
	if p := Platform(name); p.Valid() {
		return p, nil
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

// CurrentPlatform maps runtime.GOOS to a Platform. Operating systems with
// no dedicated platform are returned verbatim.
func CurrentPlatform() Platform {
	if p, err := ParsePlatform(runtime.GOOS); err == nil {
		return p
	}
	return Platform(runtime.GOOS)
}
