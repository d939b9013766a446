package provider

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/kbukum/providerkit/logger"
)

// Base implements every Provider method except a custom Initialize.
// Embed a *Base in concrete providers:
//
//	p := &Remote{Base: provider.NewBase("remote", provider.WithPriority(provider.PriorityHigh))}
type Base struct {
	name      string
	platforms []Platform
	priority  Priority
	log       *logger.Logger

	enabled atomic.Bool
	ready   atomic.Bool

	mu         sync.Mutex
	checked    bool
	applicable bool
}

// BaseOption configures a Base.
type BaseOption func(*Base)

// WithPriority sets the selection priority. The default is PriorityLow.
func WithPriority(p Priority) BaseOption {
	return func(b *Base) { b.priority = p }
}

// WithPlatforms restricts the provider to the given platforms.
func WithPlatforms(platforms ...Platform) BaseOption {
	return func(b *Base) { b.platforms = slices.Clone(platforms) }
}

// WithEnabled sets the initial enablement. Providers start enabled.
func WithEnabled(enabled bool) BaseOption {
	return func(b *Base) { b.enabled.Store(enabled) }
}

// WithBaseLogger replaces the logger used for applicability decisions.
func WithBaseLogger(l *logger.Logger) BaseOption {
	return func(b *Base) { b.log = l }
}

// NewBase creates an enabled, not-ready Base.
func NewBase(name string, opts ...BaseOption) *Base {
	b := &Base{
		name:     name,
		priority: PriorityLow,
		log:      logger.Get("provider"),
	}
	b.enabled.Store(true)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBaseFromSpec creates a Base from a config entry.
func NewBaseFromSpec(spec Spec, opts ...BaseOption) *Base {
	base := []BaseOption{
		WithPriority(spec.ParsedPriority()),
		WithPlatforms(spec.NormalizedPlatforms()...),
		WithEnabled(spec.IsEnabled()),
	}
	return NewBase(spec.Name, append(base, opts...)...)
}

func (b *Base) Name() string            { return b.name }
func (b *Base) Platforms() []Platform   { return slices.Clone(b.platforms) }
func (b *Base) Priority() Priority      { return b.priority }
func (b *Base) Enabled() bool           { return b.enabled.Load() }
func (b *Base) SetEnabled(enabled bool) { b.enabled.Store(enabled) }
func (b *Base) IsReady() bool           { return b.ready.Load() }

// MarkReady flags the provider as ready. Safe to call from any goroutine;
// calls after the first have no effect.
func (b *Base) MarkReady() {
	if b.ready.CompareAndSwap(false, true) {
		b.log.Debug("provider ready", logger.Fields(logger.FieldProvider, b.name))
	}
}

// Initialize marks the provider ready immediately.
func (b *Base) Initialize(ctx context.Context) error {
	b.MarkReady()
	return nil
}

// IsApplicable evaluates applicability on the first call and caches the
// answer. Later calls return the cached value regardless of platform or any
// change to enablement.
func (b *Base) IsApplicable(platform Platform) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.checked {
		b.applicable = b.evaluate(platform, true)
		b.checked = true
	}
	return b.applicable
}

// EvaluateApplicability recomputes applicability and leaves the cache alone.
func (b *Base) EvaluateApplicability(platform Platform) bool {
	return b.evaluate(platform, false)
}

func (b *Base) evaluate(platform Platform, logReason bool) bool {
	if !b.Enabled() {
		if logReason {
			b.log.Debug("skipping provider", logger.Fields(
				logger.FieldProvider, b.name,
				logger.FieldReason, "disabled",
			))
		}
		return false
	}
	if len(b.platforms) == 0 || slices.Contains(b.platforms, platform) {
		return true
	}
	if logReason {
		b.log.Debug("skipping provider", logger.Fields(
			logger.FieldProvider, b.name,
			logger.FieldPlatform, platform.String(),
			logger.FieldReason, "platform mismatch",
		))
	}
	return false
}
