// Package metrics exposes Prometheus metrics for verification runs.
//
// Metrics (namespace and subsystem default to preload_verifier):
//   - runs_total{outcome}: verification runs, "clean" or "violations"
//   - rows_total: rows evaluated
//   - rows_with_violations_total: rows that broke at least one rule
//   - violations_total{code}: violations by rule code
//   - run_duration_seconds: evaluation duration
//   - last_run_violations: violations found by the latest run
//   - workers: workers used by the latest run
//   - failures_total{stage}: runs aborted before evaluation
//   - reports_stored_total, reports_pruned_total: report history activity
//
// The Collector implements evaluator.Observer, so it can be handed to the
// evaluator directly.
package metrics
