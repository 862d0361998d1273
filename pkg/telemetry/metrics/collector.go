package metrics

import (
	"mercator-hq/preload/pkg/config"
	"mercator-hq/preload/pkg/evaluator"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns the verifier's metrics and the registry they live in.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	run     *RunMetrics
	history *HistoryMetrics
}

// NewCollector creates a collector registered on registry. A nil registry
// gets a fresh one. Missing namespace and subsystem fall back to defaults.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}

	return &Collector{
		config:   cfg,
		registry: registry,
		run:      NewRunMetrics(cfg, registry),
		history:  NewHistoryMetrics(cfg, registry),
	}
}

// ObserveRun records the statistics of one evaluation.
func (c *Collector) ObserveRun(stats evaluator.RunStats) {
	if !c.config.Enabled {
		return
	}
	c.run.Record(stats)
}

// RecordFailure records a run that stopped before evaluation.
//
// Parameters:
//   - stage: where it stopped, e.g. "config", "policy", "load", "storage"
func (c *Collector) RecordFailure(stage string) {
	if !c.config.Enabled {
		return
	}
	c.run.failures.WithLabelValues(stage).Inc()
}

// RecordReportStored counts a report written to history.
func (c *Collector) RecordReportStored() {
	if !c.config.Enabled {
		return
	}
	c.history.stored.Inc()
}

// RecordReportsPruned counts reports deleted by retention.
func (c *Collector) RecordReportsPruned(n int64) {
	if !c.config.Enabled || n <= 0 {
		return
	}
	c.history.pruned.Add(float64(n))
}

// Registry returns the registry the metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

var _ evaluator.Observer = (*Collector)(nil)
