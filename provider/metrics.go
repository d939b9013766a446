package provider

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Disposal reasons recorded on provider.disposed.
const (
	ReasonNotApplicable = "not_applicable"
	ReasonInitFailed    = "init_failed"
)

type coordinatorMetrics struct {
	attrs metric.MeasurementOption

	candidates        metric.Int64Counter
	retained          metric.Int64Counter
	disposed          metric.Int64Counter
	initFailures      metric.Int64Counter
	readinessDuration metric.Float64Histogram
	readinessTicks    metric.Int64Histogram
}

func newCoordinatorMetrics(meter metric.Meter, owner string, platform Platform) (*coordinatorMetrics, error) {
	candidates, err := meter.Int64Counter("provider.candidates",
		metric.WithDescription("Providers offered to the coordinator"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating provider.candidates counter: %w", err)
	}

	retained, err := meter.Int64Counter("provider.retained",
		metric.WithDescription("Providers kept after filtering and initialization"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating provider.retained counter: %w", err)
	}

	disposed, err := meter.Int64Counter("provider.disposed",
		metric.WithDescription("Providers disposed by reason"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating provider.disposed counter: %w", err)
	}

	initFailures, err := meter.Int64Counter("provider.init.failures",
		metric.WithDescription("Failed Initialize attempts"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating provider.init.failures counter: %w", err)
	}

	readinessDuration, err := meter.Float64Histogram("coordinator.readiness.duration",
		metric.WithDescription("Time from Start until every provider was ready"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating coordinator.readiness.duration histogram: %w", err)
	}

	readinessTicks, err := meter.Int64Histogram("coordinator.readiness.ticks",
		metric.WithDescription("Scheduler ticks spent waiting for readiness"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating coordinator.readiness.ticks histogram: %w", err)
	}

	return &coordinatorMetrics{
		attrs: metric.WithAttributes(
			attribute.String("owner", owner),
			attribute.String("platform", platform.String()),
		),
		candidates:        candidates,
		retained:          retained,
		disposed:          disposed,
		initFailures:      initFailures,
		readinessDuration: readinessDuration,
		readinessTicks:    readinessTicks,
	}, nil
}

func (m *coordinatorMetrics) recordCandidates(ctx context.Context, n int) {
	m.candidates.Add(ctx, int64(n), m.attrs)
}

func (m *coordinatorMetrics) recordRetained(ctx context.Context, n int) {
	m.retained.Add(ctx, int64(n), m.attrs)
}

func (m *coordinatorMetrics) recordDisposed(ctx context.Context, reason string) {
	m.disposed.Add(ctx, 1, m.attrs, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *coordinatorMetrics) recordInitFailure(ctx context.Context, providerName string) {
	m.initFailures.Add(ctx, 1, m.attrs, metric.WithAttributes(attribute.String("provider", providerName)))
}

func (m *coordinatorMetrics) recordReadiness(ctx context.Context, d time.Duration, ticks int) {
	m.readinessDuration.Record(ctx, d.Seconds(), m.attrs)
	m.readinessTicks.Record(ctx, int64(ticks), m.attrs)
}

func noopMeter() metric.Meter {
	return noop.NewMeterProvider().Meter(instrumentationName)
}
