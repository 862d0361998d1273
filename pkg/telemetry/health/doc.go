// Package health serves liveness and readiness probes for watch mode.
//
// A Checker holds named checks. Liveness always succeeds while the process
// runs. Readiness runs every check concurrently, each bounded by the
// checker's timeout, and reports "degraded" with HTTP 503 when any fails.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("report_store", store.Ping)
//	checker.RegisterCheck("last_run", watcher.LastRunError)
//	mux.Handle("/healthz", checker.LivenessHandler())
//	mux.Handle("/readyz", checker.ReadinessHandler())
package health
