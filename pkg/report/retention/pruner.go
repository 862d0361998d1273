package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mercator-hq/preload/pkg/config"
	"mercator-hq/preload/pkg/report/storage"
)

// Config contains configuration for the pruner.
type Config struct {
	// Days is how long reports are kept. 0 keeps them forever.
	Days int

	// MaxRecords caps the number of stored reports. 0 means no cap.
	MaxRecords int

	// PruneSchedule is a cron expression, e.g. "0 3 * * *".
	PruneSchedule string
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		Days:          config.DefaultRetentionDays,
		PruneSchedule: config.DefaultRetentionPruneSchedule,
	}
}

// FromConfig converts file configuration.
func FromConfig(cfg config.RetentionConfig) *Config {
	return &Config{
		Days:          cfg.Days,
		MaxRecords:    cfg.MaxRecords,
		PruneSchedule: cfg.PruneSchedule,
	}
}

// Pruner enforces retention limits on a report store.
type Pruner struct {
	storage storage.Storage
	config  *Config
	logger  *slog.Logger
	now     func() time.Time

	// OnPrune, if set, is called with the number of reports deleted by
	// every successful Prune that deleted something.
	OnPrune func(deleted int64)
}

// NewPruner creates a pruner over s.
func NewPruner(s storage.Storage, cfg *Config) *Pruner {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Pruner{
		storage: s,
		config:  cfg,
		logger:  slog.Default().With("component", "report.retention"),
		now:     time.Now,
	}
}

// Prune applies the age limit then the count limit and returns how many
// reports were deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.Days > 0 {
		cutoff := p.now().Add(-time.Duration(p.config.Days) * 24 * time.Hour)
		n, err := p.storage.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return total, fmt.Errorf("age-based pruning failed: %w", err)
		}
		if n > 0 {
			p.logger.Info("pruned reports by age",
				"deleted", n,
				"cutoff", cutoff.Format(time.RFC3339),
			)
		}
		total += n
	}

	if p.config.MaxRecords > 0 {
		count, err := p.storage.Count(ctx)
		if err != nil {
			return total, fmt.Errorf("failed to count reports: %w", err)
		}
		if count > int64(p.config.MaxRecords) {
			n, err := p.storage.DeleteOldest(ctx, p.config.MaxRecords)
			if err != nil {
				return total, fmt.Errorf("count-based pruning failed: %w", err)
			}
			if n > 0 {
				p.logger.Info("pruned reports by count",
					"deleted", n,
					"max_records", p.config.MaxRecords,
				)
			}
			total += n
		}
	}

	if total > 0 && p.OnPrune != nil {
		p.OnPrune(total)
	}
	return total, nil
}

// Config returns the pruner configuration.
func (p *Pruner) Config() *Config {
	return p.config
}
