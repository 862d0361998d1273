package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mercator-hq/preload/pkg/config"
)

// RunFunc performs one verification.
type RunFunc func(ctx context.Context) error

// Config contains configuration for the watcher.
type Config struct {
	// Paths are the files whose changes trigger a run.
	Paths []string

	// Debounce is the quiet period after the last event before a run.
	// Default: 250ms
	Debounce time.Duration
}

// Watcher runs a RunFunc at start and after every change to its paths.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   *Config
	debounce *Debouncer

	// targets holds the cleaned absolute paths being watched.
	targets map[string]struct{}

	runMu sync.Mutex

	mu      sync.RWMutex
	running bool
	runs    int
	lastErr error
	lastRun time.Time
	stopCh  chan struct{}
	stopped sync.Once
	doneCh  chan struct{}
}

// ErrNotRun is reported by LastRunError before the first run completes.
var ErrNotRun = errors.New("no verification has completed yet")

// New creates a watcher for cfg.Paths.
func New(cfg *Config, logger *slog.Logger) (*Watcher, error) {
	if cfg == nil || len(cfg.Paths) == 0 {
		return nil, errors.New("watch requires at least one path")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = config.DefaultWatchDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	targets := make(map[string]struct{}, len(cfg.Paths))
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %q: %w", p, err)
		}
		targets[filepath.Clean(abs)] = struct{}{}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  fsw,
		logger:   logger.With("component", "watch"),
		config:   cfg,
		debounce: NewDebouncer(cfg.Debounce),
		targets:  targets,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch runs run once, then again after every debounced change. It blocks
// until ctx is cancelled or Stop is called. Run errors are logged and kept
// for LastRunError; they do not stop the watcher.
func (w *Watcher) Watch(ctx context.Context, run RunFunc) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.debounce.Stop()
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	dirs := make(map[string]struct{})
	for target := range w.targets {
		dirs[filepath.Dir(target)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %q: %w", dir, err)
		}
	}

	w.logger.Info("watching inputs",
		"paths", w.config.Paths,
		"debounce_ms", w.config.Debounce.Milliseconds(),
	)

	w.runOnce(ctx, run, "start")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("input changed", "path", event.Name, "op", event.Op.String())
			name := event.Name
			w.debounce.Trigger(func() { w.runOnce(ctx, run, name) })

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

// runOnce serializes runs and records their outcome.
func (w *Watcher) runOnce(ctx context.Context, run RunFunc, trigger string) {
	if ctx.Err() != nil {
		return
	}
	w.runMu.Lock()
	defer w.runMu.Unlock()

	err := run(ctx)

	w.mu.Lock()
	w.runs++
	w.lastErr = err
	w.lastRun = time.Now()
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("verification failed", "trigger", trigger, "error", err)
		return
	}
	w.logger.Debug("verification finished", "trigger", trigger)
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := w.targets[filepath.Clean(abs)]
	return ok
}

// Stop stops a running watcher and releases its resources.
func (w *Watcher) Stop() error {
	w.mu.RLock()
	running := w.running
	w.mu.RUnlock()

	w.stopped.Do(func() { close(w.stopCh) })
	if running {
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// Runs returns the number of completed runs.
func (w *Watcher) Runs() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.runs
}

// LastRunError returns the error of the latest run, or ErrNotRun before
// the first one. Its signature fits health.CheckFunc.
func (w *Watcher) LastRunError(context.Context) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.runs == 0 {
		return ErrNotRun
	}
	return w.lastErr
}

// LastRun returns when the latest run finished.
func (w *Watcher) LastRun() time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastRun
}
