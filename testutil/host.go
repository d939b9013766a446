package testutil

import (
	"context"
	"sync"

	"github.com/kbukum/providerkit/provider"
)

// RecordingHost is a provider.Host that records disposals in order.
type RecordingHost[T provider.Provider] struct {
	platform provider.Platform

	mu       sync.Mutex
	disposed []T
}

// NewRecordingHost creates a host running on platform.
func NewRecordingHost[T provider.Provider](platform provider.Platform) *RecordingHost[T] {
	return &RecordingHost[T]{platform: platform}
}

// Platform implements provider.Host.
func (h *RecordingHost[T]) Platform() provider.Platform { return h.platform }

// Dispose implements provider.Host.
func (h *RecordingHost[T]) Dispose(ctx context.Context, p T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.disposed = append(h.disposed, p)
}

// Disposed returns the disposed providers in disposal order.
func (h *RecordingHost[T]) Disposed() []T {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]T(nil), h.disposed...)
}

// DisposedNames returns the names of the disposed providers.
func (h *RecordingHost[T]) DisposedNames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, 0, len(h.disposed))
	for _, p := range h.disposed {
		names = append(names, p.Name())
	}
	return names
}
