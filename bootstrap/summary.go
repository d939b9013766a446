package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/providerkit/component"
)

// ComponentInfo is one summary line for a registered component.
type ComponentInfo struct {
	Name    string
	Type    string
	Details string
	Health  component.Health
}

// Summary tracks and displays the application bootstrap process.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
}

// NewSummary creates a new bootstrap summary tracker.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Collect describes every registered component with its live health.
func (s *Summary) Collect(ctx context.Context, registry *component.Registry) []ComponentInfo {
	if registry == nil {
		return nil
	}
	healthByName := make(map[string]component.Health)
	for _, h := range registry.HealthAll(ctx) {
		healthByName[h.Name] = h
	}

	var out []ComponentInfo
	for _, c := range registry.All() {
		info := ComponentInfo{Name: c.Name(), Type: "component", Health: healthByName[c.Name()]}
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			info.Type = desc.Type
			info.Details = desc.Details
		}
		out = append(out, info)
	}
	return out
}

// Write prints the summary with live health from the registry.
func (s *Summary) Write(ctx context.Context, w io.Writer, registry *component.Registry) {
	fmt.Fprintf(w, "\n🚀 %s v%s started in %.2fs\n\n", s.serviceName, s.version, s.startupDuration.Seconds())

	infos := s.Collect(ctx, registry)
	if len(infos) == 0 {
		fmt.Fprintf(w, "   └── No components registered\n\n")
		return
	}

	fmt.Fprintf(w, "📦 Components\n")
	healthy := 0
	for i, c := range infos {
		prefix := "├──"
		if i == len(infos)-1 {
			prefix = "└──"
		}
		line := fmt.Sprintf("   %s %s %s [%s]", prefix, healthStatusIcon(c.Health.Status), c.Name, c.Type)
		if c.Details != "" {
			line += " " + c.Details
		}
		if c.Health.Message != "" {
			line += fmt.Sprintf(" (%s)", c.Health.Message)
		}
		fmt.Fprintln(w, line)
		if c.Health.Status == component.StatusHealthy {
			healthy++
		}
	}
	fmt.Fprintln(w)

	if healthy == len(infos) {
		fmt.Fprintf(w, "✅ All components healthy (%d/%d)\n\n", healthy, len(infos))
	} else {
		fmt.Fprintf(w, "⚠️  Some components have issues (%d/%d healthy): %s\n\n",
			healthy, len(infos), strings.Join(unhealthyNames(infos), ", "))
	}
}

func unhealthyNames(infos []ComponentInfo) []string {
	var out []string
	for _, c := range infos {
		if c.Health.Status != component.StatusHealthy {
			out = append(out, c.Name)
		}
	}
	return out
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
