package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments Operation records into.
type Metrics struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
	active   metric.Int64UpDownCounter
	errors   metric.Int64Counter
}

// NewMetrics creates the operation instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.total, err = meter.Int64Counter("operation.total",
		metric.WithDescription("Completed operations by service, operation and status")); err != nil {
		return nil, fmt.Errorf("creating operation.total: %w", err)
	}
	if m.duration, err = meter.Float64Histogram("operation.duration",
		metric.WithDescription("Operation duration"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating operation.duration: %w", err)
	}
	if m.active, err = meter.Int64UpDownCounter("operation.active",
		metric.WithDescription("Operations in flight")); err != nil {
		return nil, fmt.Errorf("creating operation.active: %w", err)
	}
	if m.errors, err = meter.Int64Counter("error.total",
		metric.WithDescription("Failed operations by service and operation")); err != nil {
		return nil, fmt.Errorf("creating error.total: %w", err)
	}
	return &m, nil
}

func (m *Metrics) begin(ctx context.Context) {
	m.active.Add(ctx, 1)
}

func (m *Metrics) finish(ctx context.Context, service, operation, status string, d time.Duration) {
	m.active.Add(ctx, -1)
	m.RecordOperation(ctx, service, operation, status, d)
}

// RecordOperation records a completed operation without in-flight tracking.
func (m *Metrics) RecordOperation(ctx context.Context, service, operation, status string, d time.Duration) {
	svc, op := attribute.String("service", service), attribute.String("operation", operation)
	m.total.Add(ctx, 1, metric.WithAttributes(svc, op, attribute.String("status", status)))
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(svc, op))
}

// RecordError counts a failed operation.
func (m *Metrics) RecordError(ctx context.Context, service, operation string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("operation", operation),
	))
}
