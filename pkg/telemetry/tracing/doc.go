// Package tracing provides OpenTelemetry tracing for verification runs.
//
// When tracing is enabled, spans are exported over OTLP gRPC to the
// configured collector. When it is disabled, New returns a Tracer backed by
// a noop provider so callers never need to branch on configuration.
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "preload.verify")
//	defer span.End()
//
// Sampling is trace-ID ratio based and respects the parent's decision.
// A ratio of 1 samples everything and 0 samples nothing.
package tracing
