package provider

import (
	"context"
	"fmt"

	"github.com/kbukum/providerkit/component"
)

// DiscoverFunc returns the candidates a coordinator component starts with.
type DiscoverFunc[T Provider] func(ctx context.Context) ([]T, error)

// Component runs a Coordinator under the bootstrap lifecycle.
type Component[T Provider] struct {
	name     string
	coord    *Coordinator[T]
	discover DiscoverFunc[T]
}

// NewComponent wraps coord. discover is called on Start to obtain the
// candidates.
func NewComponent[T Provider](name string, coord *Coordinator[T], discover DiscoverFunc[T]) *Component[T] {
	return &Component[T]{name: name, coord: coord, discover: discover}
}

// FromEntity discovers the providers attached to e.
func FromEntity[T Provider](e *Entity[T]) DiscoverFunc[T] {
	return func(ctx context.Context) ([]T, error) {
		return e.Candidates(), nil
	}
}

// Coordinator returns the wrapped coordinator.
func (c *Component[T]) Coordinator() *Coordinator[T] { return c.coord }

// Name implements component.Component.
func (c *Component[T]) Name() string { return c.name }

// Start discovers candidates and blocks until the coordinator is ready.
func (c *Component[T]) Start(ctx context.Context) error {
	candidates, err := c.discover(ctx)
	if err != nil {
		return fmt.Errorf("discover providers: %w", err)
	}
	return c.coord.Start(ctx, candidates...)
}

// Stop implements component.Component.
func (c *Component[T]) Stop(ctx context.Context) error {
	return c.coord.Stop(ctx)
}

// Health maps the coordinator state to a component health.
func (c *Component[T]) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.name}
	switch state := c.coord.State(); state {
	case StateReady:
		if c.coord.Len() == 0 {
			h.Status = component.StatusDegraded
			h.Message = "no providers available"
		} else {
			h.Status = component.StatusHealthy
		}
	case StateUnstarted, StateDiscovering, StateAwaitingReadiness:
		h.Status = component.StatusDegraded
		h.Message = state.String()
	default:
		h.Status = component.StatusUnhealthy
		h.Message = state.String()
	}
	return h
}

// Describe implements component.Describable.
func (c *Component[T]) Describe() component.Description {
	return component.Description{
		Name: c.name,
		Type: "coordinator",
		Details: fmt.Sprintf("platform=%s retained=%d disposed=%d",
			c.coord.Platform(), c.coord.Len(), len(c.coord.Disposed())),
	}
}

var (
	_ component.Component   = (*Component[Provider])(nil)
	_ component.Describable = (*Component[Provider])(nil)
)
