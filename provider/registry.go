package provider

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/multierr"

	"github.com/kbukum/providerkit/errors"
	"github.com/kbukum/providerkit/logger"
)

// Factory creates a provider from its config entry.
type Factory[T Provider] func(spec Spec) (T, error)

// Registry maps provider type names to factories.
type Registry[T Provider] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
	log       *logger.Logger
}

// NewRegistry creates a new empty Registry.
func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{
		factories: make(map[string]Factory[T]),
		log:       logger.Get("provider"),
	}
}

// Register adds a factory for typ. Registering a type twice fails.
func (r *Registry[T]) Register(typ string, factory Factory[T]) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[typ]; exists {
		return errors.AlreadyExists("provider factory", typ)
	}
	r.factories[typ] = factory
	r.log.Debug("factory registered", logger.Fields(logger.FieldProvider, typ))
	return nil
}

// Create builds one provider from spec.
func (r *Registry[T]) Create(spec Spec) (T, error) {
	r.mu.RLock()
	factory, ok := r.factories[spec.Type]
	r.mu.RUnlock()

	var zero T
	if !ok {
		return zero, errors.NotFound("provider factory", spec.Type)
	}
	p, err := factory(spec)
	if err != nil {
		return zero, fmt.Errorf("create provider %q: %w", spec.Name, err)
	}
	return p, nil
}

// Build creates providers in configuration order. Entries that fail are skipped and
// their errors combined into the returned error.
func (r *Registry[T]) Build(specs []Spec) ([]T, error) {
	out := make([]T, 0, len(specs))
	var errs error
	for _, spec := range specs {
		p, err := r.Create(spec)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out = append(out, p)
	}
	return out, errs
}

// Types returns the registered type names, sorted.
func (r *Registry[T]) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
