package provider

import (
	"context"
	"sync/atomic"

	"github.com/kbukum/providerkit/errors"
)

// Selector picks one provider from the retained set.
type Selector[T Provider] interface {
	Select(ctx context.Context, providers []T) (T, error)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc[T Provider] func(ctx context.Context, providers []T) (T, error)

// Select implements Selector.
func (f SelectorFunc[T]) Select(ctx context.Context, providers []T) (T, error) {
	return f(ctx, providers)
}

func noProvider[T Provider]() (T, error) {
	var zero T
	return zero, errors.NotFound("provider", "")
}

// HighestPrioritySelector picks the provider with the smallest Priority
// value, earliest first on ties.
type HighestPrioritySelector[T Provider] struct{}

// Select implements Selector.
func (HighestPrioritySelector[T]) Select(ctx context.Context, providers []T) (T, error) {
	if p, ok := highestPriority(providers); ok {
		return p, nil
	}
	return noProvider[T]()
}

// FirstReadySelector picks the first provider that reports IsReady.
type FirstReadySelector[T Provider] struct{}

// Select implements Selector.
func (FirstReadySelector[T]) Select(ctx context.Context, providers []T) (T, error) {
	for _, p := range providers {
		if p.IsReady() {
			return p, nil
		}
	}
	return noProvider[T]()
}

// RoundRobinSelector rotates across ready providers.
type RoundRobinSelector[T Provider] struct {
	counter atomic.Uint64
}

// Select implements Selector.
func (s *RoundRobinSelector[T]) Select(ctx context.Context, providers []T) (T, error) {
	n := len(providers)
	if n == 0 {
		return noProvider[T]()
	}
	start := int((s.counter.Add(1) - 1) % uint64(n))
	for i := range n {
		p := providers[(start+i)%n]
		if p.IsReady() {
			return p, nil
		}
	}
	return noProvider[T]()
}
