package metrics

import (
	"mercator-hq/preload/pkg/config"
	"mercator-hq/preload/pkg/evaluator"

	"github.com/prometheus/client_golang/prometheus"
)

// RunMetrics tracks verification runs.
type RunMetrics struct {
	runs               *prometheus.CounterVec
	rows               prometheus.Counter
	rowsWithViolations prometheus.Counter
	violations         *prometheus.CounterVec
	duration           prometheus.Histogram
	lastViolations     prometheus.Gauge
	workers            prometheus.Gauge
	failures           *prometheus.CounterVec
}

// NewRunMetrics creates and registers run metrics.
func NewRunMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RunMetrics {
	rm := &RunMetrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of verification runs by outcome",
			},
			[]string{"outcome"},
		),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "rows_total",
			Help:      "Total number of import rows evaluated",
		}),
		rowsWithViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "rows_with_violations_total",
			Help:      "Total number of rows that broke at least one rule",
		}),
		violations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "violations_total",
				Help:      "Total number of rule violations by code",
			},
			[]string{"code"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "run_duration_seconds",
			Help:      "Duration of batch evaluation in seconds",
			// Batches range from a handful of rows to hundreds of thousands.
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
		}),
		lastViolations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "last_run_violations",
			Help:      "Number of violations found by the latest run",
		}),
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "workers",
			Help:      "Number of workers used by the latest run",
		}),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "failures_total",
				Help:      "Total number of runs aborted before evaluation by stage",
			},
			[]string{"stage"},
		),
	}

	registry.MustRegister(
		rm.runs,
		rm.rows,
		rm.rowsWithViolations,
		rm.violations,
		rm.duration,
		rm.lastViolations,
		rm.workers,
		rm.failures,
	)

	return rm
}

// Record updates every run metric from stats.
func (rm *RunMetrics) Record(stats evaluator.RunStats) {
	total := 0
	for code, n := range stats.ViolationsByCode {
		rm.violations.WithLabelValues(code).Add(float64(n))
		total += n
	}

	outcome := "clean"
	if total > 0 {
		outcome = "violations"
	}
	rm.runs.WithLabelValues(outcome).Inc()
	rm.rows.Add(float64(stats.Rows))
	rm.rowsWithViolations.Add(float64(stats.RowsWithViolations))
	rm.duration.Observe(stats.Duration.Seconds())
	rm.lastViolations.Set(float64(total))
	rm.workers.Set(float64(stats.Workers))
}

// HistoryMetrics tracks report history.
type HistoryMetrics struct {
	stored prometheus.Counter
	pruned prometheus.Counter
}

// NewHistoryMetrics creates and registers history metrics.
func NewHistoryMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HistoryMetrics {
	hm := &HistoryMetrics{
		stored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "reports_stored_total",
			Help:      "Total number of reports written to history",
		}),
		pruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "reports_pruned_total",
			Help:      "Total number of reports deleted by retention",
		}),
	}
	registry.MustRegister(hm.stored, hm.pruned)
	return hm
}
