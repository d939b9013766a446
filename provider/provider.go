package provider

import "context"

// Provider is the contract every coordinated backend implements.
type Provider interface {
	// Name returns a display name used in logs and diagnostics.
	Name() string
	// Platforms returns the platforms the provider supports. Empty means all.
	Platforms() []Platform
	// Priority ranks the provider for selection.
	Priority() Priority
	// Enabled reports the external enablement toggle.
	Enabled() bool
	// IsApplicable reports whether the provider should run on platform.
	// The first answer is cached and returned by every later call.
	IsApplicable(platform Platform) bool
	// EvaluateApplicability computes applicability without touching the cache.
	EvaluateApplicability(platform Platform) bool
	// Initialize starts provider setup. It must eventually make IsReady
	// return true, synchronously or from background work bound to ctx.
	// A returned error means the provider failed and will be dropped.
	Initialize(ctx context.Context) error
	// IsReady reports whether setup finished. It never reverts to false.
	IsReady() bool
}

// Toggleable is implemented by providers whose enablement can change at
// runtime.
type Toggleable interface {
	SetEnabled(enabled bool)
}

// Closeable is optionally implemented by providers that hold resources
// (connections, background sessions). Close is called when the provider is
// disposed or when the coordinator stops.
type Closeable interface {
	Close(ctx context.Context) error
}
