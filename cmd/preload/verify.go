package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/preload/pkg/cli"
	"mercator-hq/preload/pkg/config"
	"mercator-hq/preload/pkg/report"
	"mercator-hq/preload/pkg/report/retention"
	"mercator-hq/preload/pkg/report/storage"
	"mercator-hq/preload/pkg/rules"
	"mercator-hq/preload/pkg/telemetry"
	"mercator-hq/preload/pkg/telemetry/logging"
	"mercator-hq/preload/pkg/verifier"
	"mercator-hq/preload/pkg/watch"
)

var verifyFlags struct {
	batch      string
	directory  string
	workspaces []string
	format     string
	output     string
	store      bool
	watch      bool
	workers    int
	listen     string
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a batch of accounts",
	Long: `Verify a batch of interviewer and supervisor accounts against a snapshot
of the accounts that already exist.

The batch is a CSV or TSV file with a header row. Supported columns are
login, password, fullname, email, phonenumber, role, supervisor and
workspace. The snapshot is a YAML, JSON or SQLite file of existing users
and workspaces.

Exit status is 0 when the batch is clean and 2 when it has violations.

Examples:
  # Verify a batch
  preload verify --batch users.tsv --directory users.yaml

  # Add workspaces that are not in the snapshot
  preload verify --batch users.tsv --directory users.yaml --workspace north,south

  # Write JUnit XML and keep the report in history
  preload verify --batch users.tsv --directory users.db --format junit --output report.xml --store

  # Re-verify on every change, serving /metrics, /healthz and /readyz
  preload verify --batch users.tsv --directory users.yaml --watch`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVarP(&verifyFlags.batch, "batch", "b", "", "batch file to verify (required)")
	verifyCmd.Flags().StringVarP(&verifyFlags.directory, "directory", "d", "", "snapshot of existing users (.yaml, .json or .db)")
	verifyCmd.Flags().StringSliceVar(&verifyFlags.workspaces, "workspace", nil, "additional known workspaces")
	verifyCmd.Flags().StringVarP(&verifyFlags.format, "format", "f", "text", "report format: text, json, csv, junit")
	verifyCmd.Flags().StringVarP(&verifyFlags.output, "output", "o", "", "write the report to a file instead of stdout")
	verifyCmd.Flags().BoolVar(&verifyFlags.store, "store", false, "store the report in history even if reports are disabled in config")
	verifyCmd.Flags().BoolVarP(&verifyFlags.watch, "watch", "w", false, "re-verify whenever the inputs change")
	verifyCmd.Flags().IntVar(&verifyFlags.workers, "workers", 0, "rows evaluated concurrently (overrides config)")
	verifyCmd.Flags().StringVar(&verifyFlags.listen, "listen", "", "telemetry listen address in watch mode (overrides config)")

	_ = verifyCmd.MarkFlagRequired("batch")
}

// session holds everything one verify invocation builds from config.
type session struct {
	cfg       *config.Config
	telemetry *telemetry.Telemetry
	logger    *slog.Logger
	store     storage.Storage
	verifier  *verifier.Verifier
	renderer  report.Renderer
}

func runVerify(cmd *cobra.Command, args []string) error {
	renderer, err := report.NewRenderer(report.Format(verifyFlags.format))
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if verifyFlags.workers > 0 {
		cfg.Evaluation.Workers = verifyFlags.workers
	}

	s, err := newSession(cfg, renderer)
	if err != nil {
		return err
	}
	defer s.close()

	files := verifier.Files{
		Batch:      verifyFlags.batch,
		Directory:  verifyFlags.directory,
		Workspaces: verifyFlags.workspaces,
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	if verifyFlags.watch {
		return s.watch(ctx, files, cmd.OutOrStdout())
	}
	return s.verify(ctx, files, cmd.OutOrStdout())
}

func newSession(cfg *config.Config, renderer report.Renderer) (*session, error) {
	tel, err := telemetry.New(&cfg.Telemetry, buildInfo())
	if err != nil {
		return nil, cli.NewCommandError("verify", err)
	}
	logger := tel.Logger().Slog()
	slog.SetDefault(logger)

	s := &session{cfg: cfg, telemetry: tel, logger: logger, renderer: renderer}

	policy, err := verifier.NewPolicy(cfg)
	if err != nil {
		s.close()
		return nil, cli.NewCommandError("verify", err)
	}

	if cfg.Reports.Enabled || verifyFlags.store {
		s.store, err = storage.New(&cfg.Reports)
		if err != nil {
			s.close()
			return nil, cli.NewCommandError("verify", fmt.Errorf("open report store: %w", err))
		}
	}

	s.verifier, err = s.newVerifier(cfg, policy)
	if err != nil {
		s.close()
		return nil, cli.NewCommandError("verify", err)
	}
	return s, nil
}

func (s *session) newVerifier(cfg *config.Config, policy *rules.Policy) (*verifier.Verifier, error) {
	return verifier.New(&verifier.Config{
		Policy:        policy,
		Workers:       cfg.Evaluation.Workers,
		Store:         s.store,
		MaskPasswords: config.Bool(cfg.Reports.MaskPasswords, config.DefaultReportsMaskPasswords),
		Recorder:      s.telemetry.Metrics(),
		Tracer:        s.telemetry.Tracer(),
		Logger:        s.logger,
	})
}

// reload re-reads the config file and rebuilds the verifier from it. The
// previous configuration and verifier stay in place when either step
// fails. The report store and telemetry are not rebuilt.
func (s *session) reload() error {
	if err := config.ReloadConfig(cfgFile); err != nil {
		return err
	}
	cfg := config.GetConfig()
	if verifyFlags.workers > 0 {
		cfg.Evaluation.Workers = verifyFlags.workers
	}

	policy, err := verifier.NewPolicy(cfg)
	if err != nil {
		return fmt.Errorf("reload policy: %w", err)
	}
	v, err := s.newVerifier(cfg, policy)
	if err != nil {
		return err
	}
	s.cfg = cfg
	s.verifier = v
	return nil
}

func (s *session) close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("failed to close report store", "error", err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.telemetry.Shutdown(ctx); err != nil {
		s.logger.Warn("failed to flush traces", "error", err)
	}
}

// verify runs once and reports violations through the exit status.
func (s *session) verify(ctx context.Context, files verifier.Files, stdout io.Writer) error {
	ctx = logging.WithSource(ctx, files.Batch)

	res, err := s.verifier.VerifyFiles(ctx, files)
	if res == nil {
		return cli.NewCommandError("verify", err)
	}
	if renderErr := s.write(res.Report, stdout); renderErr != nil {
		return cli.NewCommandError("verify", renderErr)
	}
	if err != nil {
		return cli.NewCommandError("verify", err)
	}

	rep := res.Report
	if !rep.Clean() {
		return cli.NewExitError(cli.ExitViolations,
			fmt.Errorf("%d violations in %d of %d rows", rep.ViolationCount, rep.RowsWithViolations, rep.Rows))
	}
	return nil
}

func (s *session) write(rep *report.Report, stdout io.Writer) error {
	if verifyFlags.output == "" {
		return s.renderer.Render(stdout, rep)
	}

	f, err := os.Create(verifyFlags.output)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := s.renderer.Render(f, rep); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// watch re-verifies on every input change until ctx is cancelled. It
// serves telemetry endpoints and prunes report history on schedule while
// running.
func (s *session) watch(ctx context.Context, files verifier.Files, stdout io.Writer) error {
	paths := []string{files.Batch}
	if files.Directory != "" {
		paths = append(paths, files.Directory)
	}
	if _, err := os.Stat(cfgFile); err == nil {
		paths = append(paths, cfgFile)
	}

	w, err := watch.New(&watch.Config{Paths: paths, Debounce: s.cfg.Watch.Debounce}, s.logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	health := s.telemetry.Health()
	health.RegisterCheck("last_run", w.LastRunError)

	if s.store != nil {
		health.RegisterCheck("report_store", s.store.Ping)

		pruner := retention.NewPruner(s.store, retention.FromConfig(s.cfg.Reports.Retention))
		pruner.OnPrune = s.telemetry.Metrics().RecordReportsPruned
		scheduler := retention.NewScheduler(pruner)
		if err := scheduler.Start(ctx); err != nil {
			s.logger.Warn("failed to start retention scheduler", "error", err)
		} else {
			defer scheduler.Stop()
			if next := scheduler.NextRun(); next != nil {
				s.logger.Debug("retention scheduler started", "next_run", next)
			}
		}
	}

	listen := s.cfg.Telemetry.Metrics.ListenAddress
	if verifyFlags.listen != "" {
		listen = verifyFlags.listen
	}
	if listen != "" {
		srv := &http.Server{
			Addr:              listen,
			Handler:           s.telemetry.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			s.logger.Info("serving telemetry", "address", listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("telemetry server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.logger.Warn("telemetry server shutdown failed", "error", err)
			}
		}()
	}

	run := func(ctx context.Context) error {
		if err := s.reload(); err != nil {
			s.logger.Error("failed to reload configuration, keeping the previous one", "error", err)
			return err
		}
		err := s.verify(ctx, files, stdout)
		if cli.ExitCode(err) == cli.ExitViolations {
			// Violations are a result, not a failed run.
			return nil
		}
		return err
	}

	if err := w.Watch(ctx, run); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}
