package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"mercator-hq/preload/pkg/config"
	"mercator-hq/preload/pkg/evaluator"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:   true,
		Namespace: "test",
		Subsystem: "preload",
	}
}

func TestObserveRun(t *testing.T) {
	c := NewCollector(testConfig(), nil)

	c.ObserveRun(evaluator.RunStats{
		Rows:               10,
		RowsWithViolations: 3,
		ViolationsByCode:   map[string]int{"PLU0002": 2, "PLU0021": 1},
		Duration:           5 * time.Millisecond,
		Workers:            4,
	})
	c.ObserveRun(evaluator.RunStats{Rows: 5, Workers: 2})

	if got := testutil.ToFloat64(c.run.rows); got != 15 {
		t.Errorf("rows_total = %v, want 15", got)
	}
	if got := testutil.ToFloat64(c.run.rowsWithViolations); got != 3 {
		t.Errorf("rows_with_violations_total = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.run.violations.WithLabelValues("PLU0002")); got != 2 {
		t.Errorf("violations_total{PLU0002} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.run.runs.WithLabelValues("violations")); got != 1 {
		t.Errorf("runs_total{violations} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.run.runs.WithLabelValues("clean")); got != 1 {
		t.Errorf("runs_total{clean} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.run.lastViolations); got != 0 {
		t.Errorf("last_run_violations = %v, want 0", got)
	}
	if got := testutil.ToFloat64(c.run.workers); got != 2 {
		t.Errorf("workers = %v, want 2", got)
	}
}

func TestRecordFailureAndHistory(t *testing.T) {
	c := NewCollector(testConfig(), nil)

	c.RecordFailure("policy")
	c.RecordFailure("policy")
	c.RecordReportStored()
	c.RecordReportsPruned(4)
	c.RecordReportsPruned(0)

	if got := testutil.ToFloat64(c.run.failures.WithLabelValues("policy")); got != 2 {
		t.Errorf("failures_total{policy} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.history.stored); got != 1 {
		t.Errorf("reports_stored_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.history.pruned); got != 4 {
		t.Errorf("reports_pruned_total = %v, want 4", got)
	}
}

func TestDisabledCollector(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	c := NewCollector(cfg, nil)

	c.ObserveRun(evaluator.RunStats{Rows: 10})
	c.RecordFailure("load")

	if got := testutil.ToFloat64(c.run.rows); got != 0 {
		t.Errorf("disabled collector recorded rows: %v", got)
	}
}

func TestDefaultNames(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	c := NewCollector(cfg, nil)
	c.ObserveRun(evaluator.RunStats{Rows: 1})

	if cfg.Namespace != "preload" || cfg.Subsystem != "verifier" {
		t.Errorf("defaults = %s/%s", cfg.Namespace, cfg.Subsystem)
	}
	n, err := testutil.GatherAndCount(c.Registry(), "preload_verifier_rows_total")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("preload_verifier_rows_total series = %d, want 1", n)
	}
}

func TestHandler(t *testing.T) {
	c := NewCollector(testConfig(), nil)
	c.ObserveRun(evaluator.RunStats{Rows: 2, ViolationsByCode: map[string]int{"PLU0009": 2}})

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), `test_preload_violations_total{code="PLU0009"} 2`) {
		t.Errorf("metrics output missing violations counter:\n%s", body)
	}
}
