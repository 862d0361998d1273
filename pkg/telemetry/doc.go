// Package telemetry bundles the verifier's observability components.
//
// # Components
//
//   - logging: structured logging with PII redaction
//   - metrics: Prometheus metrics for verification runs
//   - tracing: OpenTelemetry tracing exported over OTLP gRPC
//   - health: liveness and readiness probes for watch mode
//
// # Usage
//
//	tel, err := telemetry.New(&cfg.Telemetry, telemetry.BuildInfo{Version: version})
//	if err != nil {
//		return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	tel.Logger().Info("verification started", "source", path)
//
// In watch mode Handler exposes metrics, health probes and version
// information on one mux.
package telemetry
