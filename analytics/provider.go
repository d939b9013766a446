package analytics

import (
	"context"

	"github.com/kbukum/providerkit/provider"
)

// EventSessionStarted is logged once every retained provider is ready.
const EventSessionStarted = "SessionStarted"

// Standard SessionStarted parameters.
const (
	ParamPlatform  = "Platform"
	ParamSessionID = "session_id"
)

// Provider is the interface that analytics backends must implement.
type Provider interface {
	provider.Provider

	// LogEvent records a named event with string parameters.
	LogEvent(ctx context.Context, name string, params map[string]string) error
}

// NewRegistry creates a new provider registry for analytics providers.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
