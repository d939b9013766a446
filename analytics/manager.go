package analytics

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/kbukum/providerkit/errors"
	"github.com/kbukum/providerkit/logger"
	"github.com/kbukum/providerkit/observability"
	"github.com/kbukum/providerkit/provider"
	"github.com/kbukum/providerkit/resilience"
)

const instrumentationName = "github.com/kbukum/providerkit/analytics"

// Manager owns a Coordinator of analytics providers and fans events out to
// the providers it retained.
type Manager struct {
	coord     *provider.Coordinator[Provider]
	log       *logger.Logger
	metrics   *observability.Metrics
	sessionID string

	delivery DeliveryConfig
	guards   sync.Map // provider name -> *guard
}

// NewManager creates a Manager whose coordinator disposes through host.
// The coordinator is named "analytics" unless opts set another name.
// SessionStarted is logged from an after-initialise hook that runs after
// any hooks in opts.
func NewManager(host provider.Host[Provider], opts ...provider.Option) *Manager {
	m := &Manager{
		log:       logger.Get("analytics"),
		sessionID: uuid.NewString(),
	}
	metrics, err := observability.NewMetrics(observability.Meter(instrumentationName))
	if err != nil {
		m.log.Warn("analytics metrics disabled", logger.Fields(logger.FieldError, err.Error()))
	} else {
		m.metrics = metrics
	}

	all := append([]provider.Option{provider.WithName("analytics")}, opts...)
	all = append(all, provider.WithAfterInitialise(m.startSession))
	m.coord = provider.NewCoordinator(host, all...)
	return m
}

// Coordinator returns the underlying coordinator.
func (m *Manager) Coordinator() *provider.Coordinator[Provider] { return m.coord }

// SessionID returns the id sent with SessionStarted.
func (m *Manager) SessionID() string { return m.sessionID }

// Start runs discovery over candidates and blocks until they are ready.
func (m *Manager) Start(ctx context.Context, candidates ...Provider) error {
	return m.coord.Start(ctx, candidates...)
}

// Stop closes every retained provider and forgets their delivery state.
func (m *Manager) Stop(ctx context.Context) error {
	err := m.coord.Stop(ctx)
	m.guards.Clear()
	return err
}

// UseDelivery applies cfg to every provider's LogEvent, each provider with
// its own limiter and breaker. Providers sharing a name share them. Call it
// before Start.
func (m *Manager) UseDelivery(cfg DeliveryConfig) {
	m.delivery = cfg
}

// BreakerState returns the breaker state of the named provider. It reports
// false when breakers are off or the provider has not been sent an event.
func (m *Manager) BreakerState(name string) (resilience.State, bool) {
	v, ok := m.guards.Load(name)
	if !ok || v.(*guard).breaker == nil {
		return resilience.StateClosed, false
	}
	return v.(*guard).breaker.State(), true
}

// Component adapts the manager for a component.Registry.
func (m *Manager) Component(discover provider.DiscoverFunc[Provider]) *provider.Component[Provider] {
	return provider.NewComponent(m.coord.Name(), m.coord, discover)
}

// LogEvent sends the event to every retained provider in retention order.
// Provider errors are combined; a failing provider does not stop the rest.
func (m *Manager) LogEvent(ctx context.Context, name string, params map[string]string) error {
	if !m.coord.IsReady() {
		return errors.NotReady(m.coord.Name())
	}
	return m.fanOut(ctx, name, params, m.coord.Providers())
}

// LogEventToPreferred sends the event only to the highest priority
// provider.
func (m *Manager) LogEventToPreferred(ctx context.Context, name string, params map[string]string) error {
	if !m.coord.IsReady() {
		return errors.NotReady(m.coord.Name())
	}
	p, ok := m.coord.HighestPriorityProvider()
	if !ok {
		return errors.NoProvidersAvailable(m.coord.Name(), m.coord.Platform().String())
	}
	return m.fanOut(ctx, name, params, []Provider{p})
}

// startSession runs before the coordinator reports ready, so it bypasses
// the readiness check in LogEvent.
func (m *Manager) startSession(ctx context.Context) error {
	return m.fanOut(ctx, EventSessionStarted, map[string]string{
		ParamPlatform:  m.coord.Platform().String(),
		ParamSessionID: m.sessionID,
	}, m.coord.Providers())
}

func (m *Manager) fanOut(ctx context.Context, name string, params map[string]string, targets []Provider) (err error) {
	ctx, op := observability.StartOperation(ctx, observability.SpanAnalyticsEvent,
		m.coord.Name(), name, uuid.NewString(), m.metrics)
	observability.SetSpanAttribute(ctx, "analytics.targets", len(targets))
	defer func() { op.End(ctx, err) }()

	for _, p := range targets {
		if perr := m.deliver(ctx, p, name, params); perr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", p.Name(), perr))
		}
	}

	if err != nil {
		m.log.WithContext(ctx).Warn("analytics event partially delivered", logger.Fields(
			logger.FieldEvent, name,
			logger.FieldCount, len(targets),
			logger.FieldError, err.Error(),
		))
	} else {
		m.log.WithContext(ctx).Debug("analytics event delivered", logger.Fields(
			logger.FieldEvent, name,
			logger.FieldCount, len(targets),
		))
	}
	return err
}

func (m *Manager) deliver(ctx context.Context, p Provider, name string, params map[string]string) error {
	send := func() error { return p.LogEvent(ctx, name, maps.Clone(params)) }
	if g := m.guard(p.Name()); g != nil {
		return g.execute(send)
	}
	return send()
}

func (m *Manager) guard(name string) *guard {
	if !m.delivery.enabled() {
		return nil
	}
	if v, ok := m.guards.Load(name); ok {
		return v.(*guard)
	}
	v, _ := m.guards.LoadOrStore(name, newGuard(m.delivery, name, m.log))
	return v.(*guard)
}
