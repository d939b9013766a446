// Package observability wires OpenTelemetry export and offers span and
// operation helpers.
//
//	tel, err := observability.Setup(ctx, cfg.Telemetry)
//	defer tel.Shutdown(ctx)
//
//	ctx, op := observability.StartOperation(ctx, observability.SpanAnalyticsEvent,
//		"analytics", "Purchase", eventID, metrics)
//	defer func() { op.End(ctx, err) }()
package observability
