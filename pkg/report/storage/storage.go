package storage

import (
	"context"
	"fmt"
	"time"

	"mercator-hq/preload/pkg/config"
	"mercator-hq/preload/pkg/report"
)

// Summary describes a stored report without its results.
type Summary struct {
	ID                 string    `json:"id"`
	CreatedAt          time.Time `json:"created_at"`
	Source             string    `json:"source,omitempty"`
	Rows               int       `json:"rows"`
	RowsWithViolations int       `json:"rows_with_violations"`
	ViolationCount     int       `json:"violation_count"`
}

// Summarize returns the summary of r.
func Summarize(r *report.Report) Summary {
	return Summary{
		ID:                 r.ID,
		CreatedAt:          r.CreatedAt,
		Source:             r.Source,
		Rows:               r.Rows,
		RowsWithViolations: r.RowsWithViolations,
		ViolationCount:     r.ViolationCount,
	}
}

// Filter narrows List results. Zero fields do not filter.
type Filter struct {
	// Since and Until bound CreatedAt, inclusive.
	Since time.Time
	Until time.Time

	// Source matches exactly.
	Source string

	// OnlyViolations keeps reports with at least one violation.
	OnlyViolations bool

	Limit  int
	Offset int
}

func (f Filter) matches(s Summary) bool {
	if !f.Since.IsZero() && s.CreatedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && s.CreatedAt.After(f.Until) {
		return false
	}
	if f.Source != "" && s.Source != f.Source {
		return false
	}
	if f.OnlyViolations && s.ViolationCount == 0 {
		return false
	}
	return true
}

// Storage is a report history backend. Implementations are safe for
// concurrent use.
type Storage interface {
	// Store persists a report. Storing an existing id replaces it.
	Store(ctx context.Context, r *report.Report) error

	// Get returns the report with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*report.Report, error)

	// List returns matching summaries, newest first.
	List(ctx context.Context, filter Filter) ([]Summary, error)

	// Count returns the number of stored reports.
	Count(ctx context.Context) (int64, error)

	// DeleteOlderThan removes reports created before cutoff.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteOldest removes all but the newest keep reports.
	DeleteOldest(ctx context.Context, keep int) (int64, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// New opens the backend selected by cfg.
func New(cfg *config.ReportsConfig) (Storage, error) {
	switch cfg.Backend {
	case "", "sqlite":
		return NewSQLiteStorage(&SQLiteConfig{
			Path:         cfg.SQLite.Path,
			MaxOpenConns: cfg.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.SQLite.MaxIdleConns,
			WALMode:      config.Bool(cfg.SQLite.WALMode, config.DefaultReportsSQLiteWALMode),
			BusyTimeout:  cfg.SQLite.BusyTimeout,
		})
	case "memory":
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported reports backend: %q", cfg.Backend)
	}
}
