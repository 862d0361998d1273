package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/preload/pkg/config"
	"mercator-hq/preload/pkg/telemetry/health"
	"mercator-hq/preload/pkg/telemetry/logging"
	"mercator-hq/preload/pkg/telemetry/metrics"
	"mercator-hq/preload/pkg/telemetry/tracing"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Telemetry owns the logger, metrics collector, tracer and health checker.
type Telemetry struct {
	config  *config.TelemetryConfig
	build   BuildInfo
	logger  *logging.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	health  *health.Checker
}

// New initializes every telemetry component from cfg.
func New(cfg *config.TelemetryConfig, build BuildInfo) (*Telemetry, error) {
	if cfg == nil {
		return nil, errors.New("telemetry config is nil")
	}

	logger, err := logging.New(logging.FromConfig(cfg.Logging))
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	tracer, err := tracing.New(&cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}

	return &Telemetry{
		config:  cfg,
		build:   build,
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Metrics, prometheus.NewRegistry()),
		tracer:  tracer,
		health:  health.New(2 * time.Second),
	}, nil
}

// Logger returns the structured logger.
func (t *Telemetry) Logger() *logging.Logger { return t.logger }

// Metrics returns the metrics collector.
func (t *Telemetry) Metrics() *metrics.Collector { return t.metrics }

// Tracer returns the tracer.
func (t *Telemetry) Tracer() *tracing.Tracer { return t.tracer }

// Health returns the health checker.
func (t *Telemetry) Health() *health.Checker { return t.health }

// Handler returns a mux serving metrics (when enabled), /healthz, /readyz
// and /version.
func (t *Telemetry) Handler() http.Handler {
	mux := http.NewServeMux()
	if t.config.Metrics.Enabled {
		path := t.config.Metrics.Path
		if path == "" {
			path = config.DefaultMetricsPath
		}
		mux.Handle(path, t.metrics.Handler())
	}
	mux.Handle("/healthz", t.health.LivenessHandler())
	mux.Handle("/readyz", t.health.ReadinessHandler())
	mux.Handle("/version", health.VersionHandler(t.build.Version, t.build.Commit, t.build.BuildTime))
	return mux
}

// Shutdown flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.tracer.Shutdown(ctx)
}
