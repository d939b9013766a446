package version

import (
	"runtime/debug"
	"testing"
)

func buildInfo(settings ...debug.BuildSetting) func() (*debug.BuildInfo, bool) {
	return func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{GoVersion: "go1.26.0", Settings: settings}, true
	}
}

func noBuildInfo() (*debug.BuildInfo, bool) { return nil, false }

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		ver       string
		commit    string
		built     string
		read      func() (*debug.BuildInfo, bool)
		wantShort string
		release   bool
	}{
		{"dev without build info", "dev", "", "", noBuildInfo, "dev", false},
		{"empty version is dev", "", "", "", noBuildInfo, "dev", false},
		{"tagged with commit", "1.2.0", "abc1234def", "", noBuildInfo, "1.2.0-abc1234", true},
		{
			"vcs fallback", "1.2.0", "", "",
			buildInfo(
				debug.BuildSetting{Key: "vcs.revision", Value: "0123456789abcdef"},
				debug.BuildSetting{Key: "vcs.modified", Value: "true"},
			),
			"1.2.0-0123456-dirty", false,
		},
		{
			"ldflags win over vcs", "1.2.0", "feedbee", "",
			buildInfo(debug.BuildSetting{Key: "vcs.revision", Value: "0123456789abcdef"}),
			"1.2.0-feedbee", true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info := resolve(tc.ver, tc.commit, tc.built, tc.read)
			if got := info.Short(); got != tc.wantShort {
				t.Errorf("Short() = %q, want %q", got, tc.wantShort)
			}
			if got := info.IsRelease(); got != tc.release {
				t.Errorf("IsRelease() = %v, want %v", got, tc.release)
			}
		})
	}
}

func TestResolveBuildTime(t *testing.T) {
	info := resolve("1.0.0", "", "", buildInfo(debug.BuildSetting{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"}))
	if info.BuildTime != "2026-01-02T03:04:05Z" {
		t.Errorf("expected vcs.time fallback, got %q", info.BuildTime)
	}
	if got := info.String(); got != "1.0.0 (built 2026-01-02T03:04:05Z) go1.26.0" {
		t.Errorf("unexpected String(): %q", got)
	}

	stamped := resolve("1.0.0", "", "2025-12-31T00:00:00Z", buildInfo(debug.BuildSetting{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"}))
	if stamped.BuildTime != "2025-12-31T00:00:00Z" {
		t.Errorf("expected ldflags build time kept, got %q", stamped.BuildTime)
	}
}

func TestDirtyVersionIsNotRelease(t *testing.T) {
	if (Info{Version: "1.0.0-dirty"}).IsRelease() {
		t.Error("dirty version should not be a release")
	}
}

func TestGet(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()
	Version = "9.9.9"
	if got := Get().Version; got != "9.9.9" {
		t.Errorf("expected stamped version, got %q", got)
	}
}
