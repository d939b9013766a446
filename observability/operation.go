package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Operation statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Operation is one traced unit of work, optionally metered.
type Operation struct {
	Service string
	Name    string
	ID      string

	started time.Time
	span    trace.Span
	metrics *Metrics
}

type operationKey struct{}

// StartOperation opens spanName and counts the operation in flight on
// metrics, which may be nil. The returned context carries both.
func StartOperation(ctx context.Context, spanName, service, name, id string, metrics *Metrics) (context.Context, *Operation) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrServiceName, service),
		attribute.String(AttrOperationName, name),
	}
	if id != "" {
		attrs = append(attrs, attribute.String(AttrOperationID, id))
	}
	ctx, span := StartSpan(ctx, spanName, trace.WithAttributes(attrs...))

	op := &Operation{Service: service, Name: name, ID: id, started: time.Now(), span: span, metrics: metrics}
	if metrics != nil {
		metrics.begin(ctx)
	}
	return context.WithValue(ctx, operationKey{}, op), op
}

// OperationFromContext returns the operation started on ctx, or nil.
func OperationFromContext(ctx context.Context) *Operation {
	op, _ := ctx.Value(operationKey{}).(*Operation)
	return op
}

// Span returns the operation's span.
func (op *Operation) Span() trace.Span { return op.span }

// Elapsed returns the time since the operation started.
func (op *Operation) Elapsed() time.Duration { return time.Since(op.started) }

// End closes the span and records the outcome. A nil err is a success.
func (op *Operation) End(ctx context.Context, err error) {
	elapsed := op.Elapsed()
	status := StatusSuccess
	if err != nil {
		status = StatusError
		op.span.RecordError(err)
		op.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
		if op.metrics != nil {
			op.metrics.RecordError(ctx, op.Service, op.Name)
		}
	}
	op.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, elapsed.Milliseconds()),
	)
	op.span.End()

	if op.metrics != nil {
		op.metrics.finish(ctx, op.Service, op.Name, status, elapsed)
	}
}
