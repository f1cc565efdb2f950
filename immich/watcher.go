package immich

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Runner is the sync entry point the watcher triggers. A full pass is
// cheap when nothing changed, so the watcher re-runs the whole sync
// rather than tracking individual files.
type Runner interface {
	Run(ctx context.Context) (int, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context) (int, error)

func (f RunnerFunc) Run(ctx context.Context) (int, error) {
	return f(ctx)
}

// Watcher monitors the sync directory and triggers a sync run after a
// quiet period once new matching files appear.
type Watcher struct {
	dir        string
	extensions []string
	runner     Runner
	logger     *slog.Logger

	// debounce is the quiet period after the last relevant event before
	// a run fires. Screenshots tend to arrive in bursts; one run per
	// burst is enough.
	debounce time.Duration
}

// NewWatcher creates a file watcher over dir for the given runner.
func NewWatcher(dir string, extensions []string, runner Runner, logger *slog.Logger) *Watcher {
	return &Watcher{
		dir:        dir,
		extensions: extensions,
		runner:     runner,
		logger:     logger,
		debounce:   2 * time.Second,
	}
}

// Watch blocks until the context is cancelled, running the syncer
// whenever matching files are created or written in the sync directory.
// A failed triggered run is logged, not fatal: the next event gets
// another attempt.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching sync dir: %w", err)
	}

	w.logger.Info("file watcher started", slog.String("dir", w.dir))

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var (
		pending   bool
		lastEvent time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("fsnotify events channel closed unexpectedly")
			}
			if !w.relevant(event) {
				continue
			}
			pending = true
			lastEvent = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("fsnotify errors channel closed unexpectedly")
			}
			w.logger.Warn("watcher error", slog.String("error", err.Error()))

		case <-ticker.C:
			if !pending || time.Since(lastEvent) < w.debounce {
				continue
			}
			pending = false

			if _, err := w.runner.Run(ctx); err != nil {
				w.logger.Error("triggered sync failed", slog.String("error", err.Error()))
			}
		}
	}
}

// relevant reports whether an fsnotify event concerns a candidate
// image file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}

	return matchesExtension(name, w.extensions)
}
