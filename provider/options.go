package provider

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/providerkit/logger"
	"github.com/kbukum/providerkit/observability"
	"github.com/kbukum/providerkit/resilience"
)

const instrumentationName = "github.com/kbukum/providerkit/provider"

// Hook runs at a coordinator lifecycle point. A returned error is recorded
// as a diagnostic and does not stop the coordinator.
type Hook func(ctx context.Context) error

// Diagnostics receives non-fatal coordinator errors as they happen.
type Diagnostics interface {
	Report(ctx context.Context, owner string, err error)
}

// DiagnosticsFunc adapts a function to Diagnostics.
type DiagnosticsFunc func(ctx context.Context, owner string, err error)

// Report implements Diagnostics.
func (f DiagnosticsFunc) Report(ctx context.Context, owner string, err error) { f(ctx, owner, err) }

type options struct {
	name             string
	log              *logger.Logger
	scheduler        Scheduler
	readinessTimeout time.Duration
	initRetry        resilience.RetryConfig
	diagnostics      Diagnostics
	meter            metric.Meter
	before           []Hook
	after            []Hook
}

func defaultOptions() options {
	return options{
		name:      "coordinator",
		log:       logger.Get("provider"),
		scheduler: NewIntervalScheduler(DefaultFrameInterval),
		initRetry: resilience.NoRetry(),
		meter:     observability.Meter(instrumentationName),
	}
}

// Option configures a Coordinator.
type Option func(*options)

// WithName sets the owner name used in logs, metrics and errors.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the coordinator logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithScheduler sets how the readiness loop waits between checks.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// WithReadinessTimeout bounds the readiness wait. Zero disables the bound.
func WithReadinessTimeout(d time.Duration) Option {
	return func(o *options) { o.readinessTimeout = d }
}

// WithInitRetry retries a failing Initialize before the provider is dropped.
func WithInitRetry(cfg resilience.RetryConfig) Option {
	return func(o *options) { o.initRetry = cfg }
}

// WithDiagnostics forwards non-fatal errors to d.
func WithDiagnostics(d Diagnostics) Option {
	return func(o *options) { o.diagnostics = d }
}

// WithMeter records coordinator metrics on m.
func WithMeter(m metric.Meter) Option {
	return func(o *options) {
		if m != nil {
			o.meter = m
		}
	}
}

// WithBeforeInitialise adds hooks run before any provider is initialized.
func WithBeforeInitialise(hooks ...Hook) Option {
	return func(o *options) { o.before = append(o.before, hooks...) }
}

// WithAfterInitialise adds hooks run once every provider is ready, before
// the coordinator reports ready.
func WithAfterInitialise(hooks ...Hook) Option {
	return func(o *options) { o.after = append(o.after, hooks...) }
}
