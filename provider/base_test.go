package provider

import (
	"context"
	"runtime"
	"sync"
	"testing"
)

func TestIsApplicable(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		platforms []Platform
		platform  Platform
		want      bool
	}{
		{"empty set enabled", true, nil, PlatformWindows, true},
		{"empty set disabled", false, nil, PlatformWindows, false},
		{"listed platform", true, []Platform{PlatformMacOS, PlatformWindows}, PlatformWindows, true},
		{"unlisted platform", true, []Platform{PlatformMacOS}, PlatformWindows, false},
		{"listed but disabled", false, []Platform{PlatformWindows}, PlatformWindows, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBase("p", WithEnabled(tc.enabled), WithPlatforms(tc.platforms...))
			if got := b.IsApplicable(tc.platform); got != tc.want {
				t.Errorf("IsApplicable(%s) = %v, want %v", tc.platform, got, tc.want)
			}
			if got := b.EvaluateApplicability(tc.platform); got != tc.want {
				t.Errorf("EvaluateApplicability(%s) = %v, want %v", tc.platform, got, tc.want)
			}
		})
	}
}

func TestIsApplicableIsMemoized(t *testing.T) {
	b := NewBase("p", WithPlatforms(PlatformWindows))
	if !b.IsApplicable(PlatformWindows) {
		t.Fatal("expected applicable on windows")
	}

	b.SetEnabled(false)
	if !b.IsApplicable(PlatformWindows) {
		t.Error("expected cached true after disabling")
	}
	if !b.IsApplicable(PlatformMacOS) {
		t.Error("expected cached true for a different platform")
	}
	if b.EvaluateApplicability(PlatformWindows) {
		t.Error("expected recompute to see the disabled toggle")
	}

	b.SetEnabled(true)
	if b.EvaluateApplicability(PlatformMacOS) {
		t.Error("expected recompute to see the platform mismatch")
	}
}

func TestEvaluateApplicabilityLeavesCacheEmpty(t *testing.T) {
	b := NewBase("p")
	b.SetEnabled(false)
	if b.EvaluateApplicability(PlatformLinux) {
		t.Fatal("expected disabled provider to be inapplicable")
	}
	b.SetEnabled(true)
	if !b.IsApplicable(PlatformLinux) {
		t.Error("expected first cached evaluation to see the current toggle")
	}
}

func TestBaseReadiness(t *testing.T) {
	b := NewBase("p")
	if b.IsReady() {
		t.Fatal("expected not ready at construction")
	}
	if err := b.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !b.IsReady() {
		t.Fatal("expected default Initialize to mark ready")
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.MarkReady()
		}()
	}
	wg.Wait()
	if !b.IsReady() {
		t.Error("expected ready to stay true")
	}
}

func TestBaseDefaults(t *testing.T) {
	b := NewBase("analytics")
	if b.Name() != "analytics" {
		t.Errorf("unexpected name %q", b.Name())
	}
	if b.Priority() != PriorityLow {
		t.Errorf("expected low priority by default, got %s", b.Priority())
	}
	if !b.Enabled() {
		t.Error("expected enabled by default")
	}
	if len(b.Platforms()) != 0 {
		t.Errorf("expected no platforms, got %v", b.Platforms())
	}
}

func TestBasePlatformsIsCopy(t *testing.T) {
	b := NewBase("p", WithPlatforms(PlatformWindows))
	ps := b.Platforms()
	ps[0] = PlatformLinux
	if b.Platforms()[0] != PlatformWindows {
		t.Error("expected Platforms to return a copy")
	}
}

func TestNewBaseFromSpec(t *testing.T) {
	disabled := false
	b := NewBaseFromSpec(Spec{
		Name:      "x",
		Type:      "key",
		Priority:  "high",
		Platforms: []Platform{PlatformIOS},
		Enabled:   &disabled,
	})
	if b.Priority() != PriorityHigh || b.Enabled() || b.Platforms()[0] != PlatformIOS {
		t.Errorf("settings not applied: priority=%s enabled=%v platforms=%v", b.Priority(), b.Enabled(), b.Platforms())
	}
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		in      string
		want    Platform
		wantErr bool
	}{
		{"windows", PlatformWindows, false},
		{"MacOS", PlatformMacOS, false},
		{"darwin", PlatformMacOS, false},
		{" webgl ", PlatformWebGL, false},
		{"js", PlatformWebGL, false},
		{"editor", PlatformEditor, false},
		{"amiga", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParsePlatform(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParsePlatform(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParsePlatform(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCurrentPlatform(t *testing.T) {
	p := CurrentPlatform()
	switch runtime.GOOS {
	case "darwin":
		if p != PlatformMacOS {
			t.Errorf("expected macos, got %s", p)
		}
	case "linux", "windows":
		if string(p) != runtime.GOOS {
			t.Errorf("expected %s, got %s", runtime.GOOS, p)
		}
	}
	if len(KnownPlatforms()) != 7 {
		t.Errorf("expected 7 known platforms, got %d", len(KnownPlatforms()))
	}
}

func TestPriority(t *testing.T) {
	if !(PriorityLow < PriorityMedium && PriorityMedium < PriorityHigh) {
		t.Fatal("expected Low < Medium < High")
	}
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"", PriorityLow, false},
		{"low", PriorityLow, false},
		{"Medium", PriorityMedium, false},
		{"high", PriorityHigh, false},
		{"urgent", PriorityLow, true},
	}
	for _, tc := range tests {
		got, err := ParsePriority(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParsePriority(%q) = %v, %v", tc.in, got, err)
		}
	}
	if PriorityHigh.String() != "high" || Priority(9).String() != "priority(9)" {
		t.Errorf("unexpected String: %s %s", PriorityHigh, Priority(9))
	}
}
