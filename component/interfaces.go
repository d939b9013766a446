package component

import "context"

// HealthStatus is the coarse state reported by Health.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health is one component's answer to a health probe. Message explains
// anything short of healthy, e.g. "awaiting_readiness".
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a part of the process with a start and a stop. A Registry
// starts components in registration order and stops them in reverse.
type Component interface {
	// Name identifies the component in the registry; it must be unique.
	Name() string
	// Start may block until the component is usable. ctx bounds the wait.
	Start(ctx context.Context) error
	// Stop releases whatever Start acquired.
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is the startup-summary line for a component.
type Description struct {
	// Name overrides Component.Name in the summary when set.
	Name string
	// Type groups components, e.g. "scheduler", "coordinator", "server".
	Type string
	// Details is free text such as "platform=windows retained=2 disposed=1".
	Details string
}

// Describable components contribute a Description to the startup summary.
type Describable interface {
	Describe() Description
}
