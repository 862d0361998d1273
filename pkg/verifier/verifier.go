package verifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace/noop"

	"mercator-hq/preload/pkg/evaluator"
	"mercator-hq/preload/pkg/report"
	"mercator-hq/preload/pkg/report/storage"
	"mercator-hq/preload/pkg/rules"
	"mercator-hq/preload/pkg/source"
	"mercator-hq/preload/pkg/telemetry/tracing"
	"mercator-hq/preload/pkg/users"
	"mercator-hq/preload/pkg/users/directory"
)

// Recorder receives run outcomes. *metrics.Collector implements it.
type Recorder interface {
	evaluator.Observer
	RecordFailure(stage string)
	RecordReportStored()
}

// Failure stages passed to Recorder.RecordFailure.
const (
	StageLoad    = "load"
	StageStorage = "storage"
)

// Config contains configuration for a Verifier.
type Config struct {
	// Policy is the compiled rule policy. Required.
	Policy *rules.Policy

	// Workers bounds evaluation concurrency. 0 means one per CPU.
	Workers int

	// Store, if set, receives every report.
	Store storage.Storage

	// MaskPasswords masks password values in stored reports.
	MaskPasswords bool

	// Recorder, if set, is told about every run.
	Recorder Recorder

	// Tracer defaults to a noop tracer.
	Tracer evaluator.SpanStarter

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Input is one batch and the snapshot it is checked against.
type Input struct {
	// Source labels the batch in reports and logs, usually its path.
	Source string

	Batch     users.Batch
	Directory *source.Directory
}

// Files names the files of one run.
type Files struct {
	Batch     string
	Directory string

	// Workspaces are added to the workspaces known from the snapshot.
	Workspaces []string
}

// Result is the outcome of a run.
type Result struct {
	Report    *report.Report
	Directory directory.Stats
	Duration  time.Duration

	// Stored is true when the report was written to history.
	Stored bool
}

// Verifier runs verifications. It is safe for concurrent use.
type Verifier struct {
	policy    *rules.Policy
	evaluator *evaluator.Evaluator
	store     storage.Storage
	mask      bool
	recorder  Recorder
	tracer    evaluator.SpanStarter
	logger    *slog.Logger
}

// New creates a Verifier.
func New(cfg *Config) (*Verifier, error) {
	if cfg == nil || cfg.Policy == nil {
		return nil, errors.New("verifier requires a rule policy")
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("preload/verifier")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	evalCfg := evaluator.DefaultConfig()
	if cfg.Workers > 0 {
		evalCfg.Workers = cfg.Workers
	}
	evalCfg.Tracer = tracer
	evalCfg.Logger = logger
	if cfg.Recorder != nil {
		evalCfg.Observer = cfg.Recorder
	}

	return &Verifier{
		policy:    cfg.Policy,
		evaluator: evaluator.New(evalCfg),
		store:     cfg.Store,
		mask:      cfg.MaskPasswords,
		recorder:  cfg.Recorder,
		tracer:    tracer,
		logger:    logger.With("component", "verifier"),
	}, nil
}

// VerifyFiles loads the batch and snapshot named by files and verifies
// them.
func (v *Verifier) VerifyFiles(ctx context.Context, files Files) (*Result, error) {
	batch, err := source.LoadBatch(files.Batch)
	if err != nil {
		v.fail(StageLoad)
		return nil, fmt.Errorf("load batch: %w", err)
	}

	dir := &source.Directory{}
	if files.Directory != "" {
		dir, err = source.LoadDirectory(ctx, files.Directory)
		if err != nil {
			v.fail(StageLoad)
			return nil, fmt.Errorf("load directory: %w", err)
		}
	}
	dir.AddWorkspaces(files.Workspaces...)

	return v.Verify(ctx, Input{Source: files.Batch, Batch: batch, Directory: dir})
}

// Verify checks in.Batch against in.Directory. The returned error is
// non-nil only when storing the report failed; the result is still
// complete in that case.
func (v *Verifier) Verify(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()

	dir := in.Directory
	if dir == nil {
		dir = &source.Directory{}
	}

	ctx, span := v.tracer.Start(ctx, "preload.verify")
	defer span.End()
	tracing.SetRunAttributes(span, runID, in.Source)

	logger := v.logger.With("run_id", runID)
	if in.Source != "" {
		logger = logger.With("source", in.Source)
	}

	index := directory.Build(dir.Users)
	stats := index.Stats()
	if stats.ShadowedInterviewers > 0 {
		logger.Warn("archived interviewer names repeat in snapshot; the last record wins",
			"shadowed", stats.ShadowedInterviewers,
		)
	}

	rowRules := rules.RowRules(index, dir.Workspaces, v.policy)
	datasetRules := rules.DatasetRules(index, in.Batch)

	rep := v.evaluator.Evaluate(ctx, in.Batch, rowRules, datasetRules)
	rep.ID = runID
	rep.Source = in.Source

	res := &Result{
		Report:    rep,
		Directory: stats,
	}

	var storeErr error
	if v.store != nil {
		stored := rep
		if v.mask {
			stored = rep.MaskPasswords()
		}
		if err := v.store.Store(ctx, stored); err != nil {
			storeErr = fmt.Errorf("store report: %w", err)
			v.fail(StageStorage)
			tracing.SetError(span, storeErr)
			logger.Error("failed to store report", "error", err)
		} else {
			res.Stored = true
			if v.recorder != nil {
				v.recorder.RecordReportStored()
			}
		}
	}

	res.Duration = time.Since(start)
	tracing.SetResultAttributes(span, rep.Rows, rep.ViolationCount, rep.ID)
	tracing.SetStatus(span, storeErr)

	logger.Info("verification completed",
		"rows", rep.Rows,
		"rows_with_violations", rep.RowsWithViolations,
		"violations", rep.ViolationCount,
		"existing_users", stats.Users,
		"workspaces", len(dir.Workspaces),
		"stored", res.Stored,
		"duration", res.Duration,
	)

	return res, storeErr
}

func (v *Verifier) fail(stage string) {
	if v.recorder != nil {
		v.recorder.RecordFailure(stage)
	}
}
