package provider

import (
	"context"
	"reflect"
	"slices"
	"sync"

	"github.com/kbukum/providerkit/logger"
)

// Host is the owning environment a coordinator runs in.
type Host[T Provider] interface {
	// Platform reports the platform the host runs on.
	Platform() Platform
	// Dispose removes a provider the coordinator will not use.
	Dispose(ctx context.Context, p T)
}

// Entity is an in-memory Host: an owning entity with an ordered set of
// attached providers.
type Entity[T Provider] struct {
	name     string
	platform Platform
	log      *logger.Logger

	mu       sync.Mutex
	attached []T
	disposed []string
}

// NewEntity creates an entity running on platform. An empty platform means
// CurrentPlatform.
func NewEntity[T Provider](name string, platform Platform) *Entity[T] {
	if platform == "" {
		platform = CurrentPlatform()
	}
	return &Entity[T]{
		name:     name,
		platform: platform,
		log:      logger.Get("provider").WithFields(logger.Fields(logger.FieldOwner, name)),
	}
}

// Name returns the entity name.
func (e *Entity[T]) Name() string { return e.name }

// Platform implements Host.
func (e *Entity[T]) Platform() Platform { return e.platform }

// Attach adds providers in order.
func (e *Entity[T]) Attach(providers ...T) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attached = append(e.attached, providers...)
}

// Candidates returns the attached providers in attachment order.
func (e *Entity[T]) Candidates() []T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.attached)
}

// Disposed returns the names of disposed providers in disposal order.
func (e *Entity[T]) Disposed() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.disposed)
}

// Dispose implements Host. The provider is detached so it is never handed
// out again, then closed when it implements Closeable.
func (e *Entity[T]) Dispose(ctx context.Context, p T) {
	e.mu.Lock()
	e.attached = slices.DeleteFunc(e.attached, func(x T) bool { return sameProvider(x, p) })
	e.disposed = append(e.disposed, p.Name())
	e.mu.Unlock()

	if c, ok := any(p).(Closeable); ok {
		if err := c.Close(ctx); err != nil {
			e.log.Warn("provider close failed", logger.Fields(
				logger.FieldProvider, p.Name(),
				logger.FieldError, err.Error(),
			))
		}
	}
	e.log.Debug("provider disposed", logger.Fields(logger.FieldProvider, p.Name()))
}

// sameProvider compares by identity. Non-comparable values never match.
func sameProvider[T Provider](a, b T) bool {
	if !reflect.ValueOf(a).Comparable() {
		return false
	}
	return any(a) == any(b)
}
