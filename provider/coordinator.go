package provider

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/multierr"

	"github.com/kbukum/providerkit/errors"
	"github.com/kbukum/providerkit/logger"
	"github.com/kbukum/providerkit/observability"
	"github.com/kbukum/providerkit/resilience"
)

// State is the coordinator lifecycle stage.
type State int32

const (
	StateUnstarted State = iota
	StateDiscovering
	StateAwaitingReadiness
	StateReady
	StateFailed
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateDiscovering:
		return "discovering"
	case StateAwaitingReadiness:
		return "awaiting_readiness"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

type readinessTimeoutCause struct{}

func (readinessTimeoutCause) Error() string { return "readiness timeout" }

var errReadinessTimeout error = readinessTimeoutCause{}

// Coordinator discovers, filters, initializes and awaits a set of providers
// attached to a Host, then exposes them for aggregation and selection.
type Coordinator[T Provider] struct {
	host    Host[T]
	opts    options
	log     *logger.Logger
	metrics *coordinatorMetrics

	started atomic.Bool
	state   atomic.Int32

	ready     chan struct{}
	readyOnce sync.Once

	mu       sync.RWMutex
	retained []T
	disposed []string
	diags    []error
	closed   bool

	lifeMu  sync.Mutex
	cancel  context.CancelFunc
	stopped bool
}

// NewCoordinator creates an unstarted coordinator for host.
func NewCoordinator[T Provider](host Host[T], opts ...Option) *Coordinator[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Coordinator[T]{
		host:  host,
		opts:  o,
		log:   o.log.WithFields(logger.Fields(logger.FieldOwner, o.name)),
		ready: make(chan struct{}),
	}

	m, err := newCoordinatorMetrics(o.meter, o.name, host.Platform())
	if err != nil {
		c.log.Warn("coordinator metrics disabled", logger.Fields(logger.FieldError, err.Error()))
		m, _ = newCoordinatorMetrics(noopMeter(), o.name, host.Platform())
	}
	c.metrics = m
	return c
}

// Name returns the owner name.
func (c *Coordinator[T]) Name() string { return c.opts.name }

// Platform returns the host platform.
func (c *Coordinator[T]) Platform() Platform { return c.host.Platform() }

// Start runs discovery and waits until every retained provider is ready.
//
// Candidates that are not applicable on the host platform, or whose
// Initialize fails after retries, are disposed through the host. An empty
// retained set is reported as a NO_PROVIDERS_AVAILABLE diagnostic and the
// coordinator becomes ready immediately.
//
// Start returns ALREADY_STARTED on any call after the first,
// PROVIDER_NEVER_READY when the readiness timeout elapses, and the context
// error when ctx is canceled or Stop is called during the wait.
func (c *Coordinator[T]) Start(ctx context.Context, candidates ...T) (err error) {
	if !c.started.CompareAndSwap(false, true) {
		return errors.AlreadyStarted(c.opts.name)
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanCoordinatorStart)
	span.SetAttributes(
		attribute.String(observability.AttrOwner, c.opts.name),
		attribute.String(observability.AttrPlatform, c.host.Platform().String()),
		attribute.Int("provider.candidates", len(candidates)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(
			attribute.String("coordinator.state", c.State().String()),
			attribute.Int("provider.retained", c.Len()),
		)
		span.End()
	}()

	lifetime, err := c.begin(ctx)
	if err != nil {
		return err
	}

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	stopWatch := context.AfterFunc(lifetime, cancelRun)
	defer stopWatch()

	defer func() {
		if r := recover(); r != nil {
			err = errors.Internal(fmt.Errorf("coordinator start panicked: %v", r))
			c.fail(ctx, err)
		}
	}()

	started := time.Now()
	return c.run(runCtx, lifetime, started, candidates)
}

// begin installs the provider lifetime context. Providers keep it after
// Start returns; Stop cancels it.
func (c *Coordinator[T]) begin(ctx context.Context) (context.Context, error) {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()
	if c.stopped {
		return nil, context.Canceled
	}
	lifetime, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel
	return lifetime, nil
}

func (c *Coordinator[T]) run(ctx, lifetime context.Context, started time.Time, candidates []T) error {
	platform := c.host.Platform()

	c.mu.Lock()
	c.retained = c.retained[:0]
	c.mu.Unlock()
	if !c.transition(StateDiscovering) {
		return context.Canceled
	}
	c.log.Info("initialising providers", logger.Fields(
		logger.FieldPlatform, platform.String(),
		logger.FieldCount, len(candidates),
	))

	c.runHooks(ctx, "before_initialise", c.opts.before)
	c.metrics.recordCandidates(ctx, len(candidates))

	for _, p := range candidates {
		if err := ctx.Err(); err != nil {
			return c.fail(ctx, err)
		}

		if !c.applicable(p, platform) {
			c.dispose(ctx, p, ReasonNotApplicable)
			continue
		}

		if err := c.initialize(ctx, lifetime, p); err != nil {
			c.metrics.recordInitFailure(ctx, p.Name())
			c.diagnose(ctx, errors.ProviderInitFailed(p.Name(), err))
			c.dispose(ctx, p, ReasonInitFailed)
			continue
		}

		if !c.retain(p) {
			c.closeProvider(context.WithoutCancel(ctx), p)
			return c.fail(ctx, context.Canceled)
		}
		c.log.Debug("provider retained", logger.Fields(
			logger.FieldProvider, p.Name(),
			logger.FieldPriority, p.Priority().String(),
		))
	}

	retained := c.Len()
	c.metrics.recordRetained(ctx, retained)
	if retained == 0 {
		c.diagnose(ctx, errors.NoProvidersAvailable(c.opts.name, platform.String()))
	} else {
		c.log.Info("providers initialised, waiting for readiness", logger.Fields(logger.FieldCount, retained))
	}

	if !c.transition(StateAwaitingReadiness) {
		return context.Canceled
	}
	ticks, err := c.awaitReadiness(ctx)
	if err != nil {
		return c.fail(ctx, err)
	}
	c.metrics.recordReadiness(ctx, time.Since(started), ticks)

	c.runHooks(ctx, "after_initialise", c.opts.after)

	if !c.transition(StateReady) {
		return context.Canceled
	}
	c.readyOnce.Do(func() { close(c.ready) })
	c.log.Info("coordinator ready", logger.MergeWithDuration(
		logger.Fields(logger.FieldCount, retained, logger.FieldTick, ticks), time.Since(started)))
	return nil
}

func (c *Coordinator[T]) awaitReadiness(ctx context.Context) (int, error) {
	if c.opts.readinessTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, c.opts.readinessTimeout, errReadinessTimeout)
		defer cancel()
	}

	ticks := 0
	for {
		pending := c.pending()
		if len(pending) == 0 {
			return ticks, nil
		}
		if err := c.opts.scheduler.Yield(ctx); err != nil {
			if context.Cause(ctx) == errReadinessTimeout {
				return ticks, errors.ProviderNeverReady(c.opts.name, pending)
			}
			return ticks, err
		}
		ticks++
	}
}

func (c *Coordinator[T]) pending() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var names []string
	for _, p := range c.retained {
		if !p.IsReady() {
			names = append(names, p.Name())
		}
	}
	return names
}

func (c *Coordinator[T]) applicable(p T, platform Platform) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("applicability check panicked", logger.Fields(
				logger.FieldProvider, p.Name(),
				logger.FieldError, fmt.Sprint(r),
			))
			ok = false
		}
	}()
	return p.IsApplicable(platform)
}

func (c *Coordinator[T]) initialize(ctx, lifetime context.Context, p T) error {
	attempt := 0
	return resilience.RetryFunc(ctx, c.opts.initRetry, func() error {
		attempt++
		err := safeInitialize(lifetime, p)
		if err != nil {
			c.log.Warn("provider initialise failed", logger.Fields(
				logger.FieldProvider, p.Name(),
				"attempt", attempt,
				logger.FieldError, err.Error(),
			))
		}
		return err
	})
}

func safeInitialize[T Provider](ctx context.Context, p T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("initialize panicked: %v", r)
		}
	}()
	return p.Initialize(ctx)
}

func (c *Coordinator[T]) retain(p T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.retained = append(c.retained, p)
	return true
}

func (c *Coordinator[T]) dispose(ctx context.Context, p T, reason string) {
	c.mu.Lock()
	c.disposed = append(c.disposed, p.Name())
	c.mu.Unlock()
	c.metrics.recordDisposed(ctx, reason)

	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("host dispose panicked", logger.Fields(
				logger.FieldProvider, p.Name(),
				logger.FieldError, fmt.Sprint(r),
			))
		}
	}()
	c.host.Dispose(context.WithoutCancel(ctx), p)
	c.log.Debug("provider disposed", logger.Fields(
		logger.FieldProvider, p.Name(),
		logger.FieldReason, reason,
	))
}

func (c *Coordinator[T]) runHooks(ctx context.Context, stage string, hooks []Hook) {
	for i, hook := range hooks {
		if err := safeHook(ctx, hook); err != nil {
			c.diagnose(ctx, fmt.Errorf("%s hook %d: %w", stage, i, err))
		}
	}
}

func safeHook(ctx context.Context, hook Hook) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook panicked: %v", r)
		}
	}()
	return hook(ctx)
}

func (c *Coordinator[T]) diagnose(ctx context.Context, err error) {
	c.mu.Lock()
	c.diags = append(c.diags, err)
	c.mu.Unlock()

	if errors.HasCode(err, errors.ErrCodeNoProvidersAvailable) {
		c.log.Error("no providers for this platform", logger.Fields(
			logger.FieldPlatform, c.host.Platform().String(),
		))
	} else {
		c.log.Warn("coordinator diagnostic", logger.Fields(logger.FieldError, err.Error()))
	}
	observability.SpanFromContext(ctx).RecordError(err)

	if c.opts.diagnostics != nil {
		c.opts.diagnostics.Report(ctx, c.opts.name, err)
	}
}

func (c *Coordinator[T]) fail(ctx context.Context, err error) error {
	if c.transition(StateFailed) {
		c.log.Error("coordinator failed", logger.Fields(
			logger.FieldState, StateFailed.String(),
			logger.FieldError, err.Error(),
		))
	}
	return err
}

// transition moves to next unless the coordinator was stopped.
func (c *Coordinator[T]) transition(next State) bool {
	for {
		cur := c.state.Load()
		if State(cur) == StateStopped {
			return false
		}
		if c.state.CompareAndSwap(cur, int32(next)) {
			return true
		}
	}
}

// Stop cancels an in-flight readiness wait, closes Closeable providers in
// reverse order and clears the retained set. Later calls are no-ops. A Start
// still running sees the cancellation and closes anything it initialises
// afterwards itself.
func (c *Coordinator[T]) Stop(ctx context.Context) error {
	c.lifeMu.Lock()
	if c.stopped {
		c.lifeMu.Unlock()
		return nil
	}
	c.stopped = true
	cancel := c.cancel
	c.lifeMu.Unlock()

	c.state.Store(int32(StateStopped))
	if cancel != nil {
		cancel()
	}

	c.mu.Lock()
	retained := c.retained
	c.retained = nil
	c.closed = true
	c.mu.Unlock()

	var errs error
	for _, p := range slices.Backward(retained) {
		errs = multierr.Append(errs, c.closeProvider(ctx, p))
	}
	c.log.Info("coordinator stopped", logger.Fields(logger.FieldCount, len(retained)))
	return errs
}

func (c *Coordinator[T]) closeProvider(ctx context.Context, p T) (err error) {
	closer, ok := any(p).(Closeable)
	if !ok {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("close %s panicked: %v", p.Name(), r)
		}
	}()
	if err := closer.Close(ctx); err != nil {
		return fmt.Errorf("close %s: %w", p.Name(), err)
	}
	return nil
}

// State returns the lifecycle stage.
func (c *Coordinator[T]) State() State { return State(c.state.Load()) }

// IsReady reports whether every retained provider became ready and the
// after-initialise hooks ran.
func (c *Coordinator[T]) IsReady() bool { return c.State() == StateReady }

// Ready returns a channel closed when the coordinator becomes ready.
func (c *Coordinator[T]) Ready() <-chan struct{} { return c.ready }

// Providers returns a snapshot of the retained providers in order.
func (c *Coordinator[T]) Providers() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.retained)
}

// Len returns the number of retained providers.
func (c *Coordinator[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.retained)
}

// AllProviders yields the retained providers in retained order. The set is
// read when iteration begins, so a call during discovery sees the providers
// retained so far and a call after Stop sees none.
func (c *Coordinator[T]) AllProviders() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, p := range c.Providers() {
			if !yield(p) {
				return
			}
		}
	}
}

// HighestPriorityProvider returns the retained provider with the smallest
// Priority value. Ties go to the earliest retained. It reports false when
// nothing is retained.
func (c *Coordinator[T]) HighestPriorityProvider() (T, bool) {
	return highestPriority(c.Providers())
}

func highestPriority[T Provider](providers []T) (T, bool) {
	var found T
	if len(providers) == 0 {
		return found, false
	}
	found = providers[0]
	for _, p := range providers[1:] {
		if p.Priority() < found.Priority() {
			found = p
		}
	}
	return found, true
}

// Select picks a retained provider with sel.
func (c *Coordinator[T]) Select(ctx context.Context, sel Selector[T]) (T, error) {
	return sel.Select(ctx, c.Providers())
}

// Diagnostics returns the non-fatal errors recorded so far.
func (c *Coordinator[T]) Diagnostics() []error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.diags)
}

// Disposed returns the names of providers dropped during discovery.
func (c *Coordinator[T]) Disposed() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.disposed)
}
