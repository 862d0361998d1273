package evaluator

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"mercator-hq/preload/pkg/report"
	"mercator-hq/preload/pkg/rules"
	"mercator-hq/preload/pkg/users"
)

// SpanStarter starts tracing spans. Both trace.Tracer and
// tracing.Tracer satisfy it.
type SpanStarter interface {
	Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span)
}

// RunStats summarizes one evaluation.
type RunStats struct {
	Rows               int
	RowsWithViolations int
	RulesApplied       int
	ViolationsByCode   map[string]int
	Duration           time.Duration
	Workers            int
}

// Observer receives the statistics of every run.
type Observer interface {
	ObserveRun(stats RunStats)
}

// Config contains configuration for the evaluator.
type Config struct {
	// Workers is the number of goroutines evaluating rows.
	// Default: runtime.GOMAXPROCS(0)
	Workers int

	// Observer, if set, is told about each run.
	Observer Observer

	// Tracer, if set, records an evaluation span.
	Tracer SpanStarter

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the default evaluator configuration.
func DefaultConfig() *Config {
	return &Config{
		Workers: runtime.GOMAXPROCS(0),
	}
}

// Evaluator applies bound rules to rows. It holds no per-run state and
// may be reused and shared.
type Evaluator struct {
	workers  int
	observer Observer
	tracer   SpanStarter
	logger   *slog.Logger
}

// New creates an Evaluator.
func New(config *Config) *Evaluator {
	if config == nil {
		config = DefaultConfig()
	}

	e := &Evaluator{
		workers:  config.Workers,
		observer: config.Observer,
		tracer:   config.Tracer,
		logger:   config.Logger,
	}
	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	if e.tracer == nil {
		e.tracer = noop.NewTracerProvider().Tracer("preload/evaluator")
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.logger = e.logger.With("component", "evaluator")

	return e
}

// Evaluate applies every rule in every catalog to every row and returns
// the report. It always completes; ctx only carries the trace.
func (e *Evaluator) Evaluate(ctx context.Context, rows users.Batch, catalogs ...[]rules.Rule) *report.Report {
	start := time.Now()

	ruleset := make([]rules.Rule, 0)
	for _, c := range catalogs {
		ruleset = append(ruleset, c...)
	}

	workers := e.workers
	if workers > len(rows) {
		workers = len(rows)
	}

	_, span := e.tracer.Start(ctx, "preload.evaluate",
		trace.WithAttributes(
			attribute.Int("preload.rows", len(rows)),
			attribute.Int("preload.rules", len(ruleset)),
			attribute.Int("preload.workers", workers),
		),
	)
	defer span.End()

	results := make([]report.RowResult, len(rows))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = evaluateRow(i, rows[i], ruleset)
			}
		}()
	}
	for i := range rows {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	rep := report.New(len(rows), results)
	duration := time.Since(start)

	span.SetAttributes(
		attribute.Int("preload.violations", rep.ViolationCount),
		attribute.Int("preload.rows_with_violations", rep.RowsWithViolations),
	)

	e.logger.Debug("batch evaluated",
		"rows", len(rows),
		"rules", len(ruleset),
		"workers", workers,
		"violations", rep.ViolationCount,
		"duration", duration,
	)

	if e.observer != nil {
		byCode := make(map[string]int, len(rep.CountsByCode))
		for code, n := range rep.CountsByCode {
			byCode[code] = n
		}
		e.observer.ObserveRun(RunStats{
			Rows:               len(rows),
			RowsWithViolations: rep.RowsWithViolations,
			RulesApplied:       len(rows) * len(ruleset),
			ViolationsByCode:   byCode,
			Duration:           duration,
			Workers:            workers,
		})
	}

	return rep
}

// evaluateRow runs the whole ruleset against one row.
func evaluateRow(i int, row users.ImportRow, ruleset []rules.Rule) report.RowResult {
	res := report.RowResult{
		Row:   i,
		Line:  row.Line,
		Login: row.Login,
	}
	for _, r := range ruleset {
		if r.Violates(row) {
			res.Violations = append(res.Violations, report.Violation{
				Code:  r.Code,
				Field: r.Field,
				Value: r.Value(row),
			})
		}
	}
	return res
}
