package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/preload/pkg/cli"
	"mercator-hq/preload/pkg/config"
	"mercator-hq/preload/pkg/report"
	"mercator-hq/preload/pkg/report/retention"
	"mercator-hq/preload/pkg/report/storage"
)

var historyFlags struct {
	backend    string
	timeRange  string
	since      time.Duration
	source     string
	violations bool
	limit      int
	offset     int
	format     string
	days       int
	maxRecords int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse stored verification reports",
	Long: `Browse and prune the reports stored by verify.

Reports are stored when reports.enabled is set in config or verify runs
with --store.

Subcommands:
  list   - List stored reports, newest first
  show   - Print one stored report
  prune  - Delete reports outside the retention limits

Examples:
  # Reports from the last day that had violations
  preload history list --since 24h --violations

  # Re-render a stored report as JUnit XML
  preload history show 5b0f1c7e-... --format junit`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reports",
	Long: `List stored report summaries, newest first.

Time Range Format:
  RFC3339 interval format: "start/end"
  Example: "2026-10-01T00:00:00Z/2026-10-02T00:00:00Z"`,
	Args: cobra.NoArgs,
	RunE: listHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <report-id>",
	Short: "Print a stored report",
	Args:  cobra.ExactArgs(1),
	RunE:  showHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete reports outside the retention limits",
	Long: `Delete reports older than reports.retention.days, then the oldest
reports beyond reports.retention.max_records. Flags override config.`,
	Args: cobra.NoArgs,
	RunE: pruneHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyPruneCmd)

	historyCmd.PersistentFlags().StringVar(&historyFlags.backend, "backend", "", "backend: sqlite, memory (uses config if not specified)")

	historyListCmd.Flags().StringVar(&historyFlags.timeRange, "time-range", "", "time range (RFC3339 interval: start/end)")
	historyListCmd.Flags().DurationVar(&historyFlags.since, "since", 0, "only reports newer than this (e.g. 24h)")
	historyListCmd.Flags().StringVar(&historyFlags.source, "source", "", "filter by batch source")
	historyListCmd.Flags().BoolVar(&historyFlags.violations, "violations", false, "only reports with violations")
	historyListCmd.Flags().IntVar(&historyFlags.limit, "limit", 50, "max results")
	historyListCmd.Flags().IntVar(&historyFlags.offset, "offset", 0, "pagination offset")
	historyListCmd.Flags().StringVarP(&historyFlags.format, "format", "f", "text", "output format: text, json")

	historyShowCmd.Flags().StringVarP(&historyFlags.format, "format", "f", "text", "report format: text, json, csv, junit")

	historyPruneCmd.Flags().IntVar(&historyFlags.days, "days", -1, "retention in days (overrides config, 0 keeps forever)")
	historyPruneCmd.Flags().IntVar(&historyFlags.maxRecords, "max-records", -1, "maximum reports to keep (overrides config, 0 means no cap)")
}

func openHistory() (*config.Config, storage.Storage, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	reports := cfg.Reports
	if historyFlags.backend != "" {
		reports.Backend = historyFlags.backend
	}

	store, err := storage.New(&reports)
	if err != nil {
		return nil, nil, cli.NewCommandError("history", fmt.Errorf("open report store: %w", err))
	}
	return cfg, store, nil
}

func listHistory(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(historyFlags.format)
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}

	filter := storage.Filter{
		Source:         historyFlags.source,
		OnlyViolations: historyFlags.violations,
		Limit:          historyFlags.limit,
		Offset:         historyFlags.offset,
	}
	if historyFlags.timeRange != "" {
		filter.Since, filter.Until, err = parseTimeRange(historyFlags.timeRange)
		if err != nil {
			return cli.NewConfigError("time-range", err.Error())
		}
	}
	if historyFlags.since > 0 {
		filter.Since = time.Now().Add(-historyFlags.since)
	}

	_, store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.List(cmd.Context(), filter)
	if err != nil {
		return cli.NewCommandError("history list", err)
	}

	table := cli.Table{Headers: []string{"ID", "CREATED", "SOURCE", "ROWS", "FAILING", "VIOLATIONS"}}
	for _, s := range summaries {
		table.Append(
			s.ID,
			s.CreatedAt.Local().Format(time.RFC3339),
			s.Source,
			strconv.Itoa(s.Rows),
			strconv.Itoa(s.RowsWithViolations),
			strconv.Itoa(s.ViolationCount),
		)
	}
	if summaries == nil {
		summaries = []storage.Summary{}
	}
	return cli.Write(cmd.OutOrStdout(), format, table, summaries)
}

func showHistory(cmd *cobra.Command, args []string) error {
	renderer, err := report.NewRenderer(report.Format(historyFlags.format))
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}

	_, store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	rep, err := store.Get(cmd.Context(), args[0])
	if errors.Is(err, storage.ErrNotFound) {
		return cli.NewCommandError("history show", fmt.Errorf("no report with id %q", args[0]))
	}
	if err != nil {
		return cli.NewCommandError("history show", err)
	}
	return renderer.Render(cmd.OutOrStdout(), rep)
}

func pruneHistory(cmd *cobra.Command, args []string) error {
	cfg, store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	retentionCfg := retention.FromConfig(cfg.Reports.Retention)
	if historyFlags.days >= 0 {
		retentionCfg.Days = historyFlags.days
	}
	if historyFlags.maxRecords >= 0 {
		retentionCfg.MaxRecords = historyFlags.maxRecords
	}

	deleted, err := retention.NewPruner(store, retentionCfg).Prune(cmd.Context())
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Pruned %d report(s)\n", deleted)
	return nil
}

// parseTimeRange parses an RFC3339 "start/end" interval. Either side may
// be empty.
func parseTimeRange(s string) (since, until time.Time, err error) {
	start, end, ok := strings.Cut(s, "/")
	if !ok {
		return since, until, fmt.Errorf("expected start/end, got %q", s)
	}
	if start != "" {
		if since, err = time.Parse(time.RFC3339, start); err != nil {
			return since, until, fmt.Errorf("invalid start time: %w", err)
		}
	}
	if end != "" {
		if until, err = time.Parse(time.RFC3339, end); err != nil {
			return since, until, fmt.Errorf("invalid end time: %w", err)
		}
	}
	if !since.IsZero() && !until.IsZero() && until.Before(since) {
		return since, until, errors.New("end time is before start time")
	}
	return since, until, nil
}
