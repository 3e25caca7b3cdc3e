package files

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/validation"
)

// ReloadFunc loads the dataset at path.
type ReloadFunc func(ctx context.Context, path string) error

// DatasetWatcher reloads the dataset when its file changes.
type DatasetWatcher struct {
	path     string
	dir      string
	target   string // empty when path is a directory
	debounce time.Duration
	reload   ReloadFunc
	logger   *slog.Logger
	ready    chan struct{}
}

// NewDatasetWatcher creates a watcher for path, which may be a dataset file
// or a directory of datasets.
func NewDatasetWatcher(path string, debounce time.Duration, reload ReloadFunc, logger *slog.Logger) (*DatasetWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if reload == nil {
		return nil, fmt.Errorf("reload function is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w := &DatasetWatcher{
		path:     abs,
		dir:      filepath.Dir(abs),
		target:   abs,
		debounce: debounce,
		reload:   reload,
		logger:   logger.With(slog.String("component", "dataset_watcher")),
		ready:    make(chan struct{}),
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		w.dir = abs
		w.target = ""
	}
	return w, nil
}

// Ready is closed once the directory is being watched.
func (w *DatasetWatcher) Ready() <-chan struct{} {
	return w.ready
}

// relevant reports whether an event touches the watched dataset.
func (w *DatasetWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(event.Name)
	if w.target != "" {
		return name == w.target
	}
	return validation.IsDatasetFile(name)
}

// Run watches until ctx is cancelled. Reload errors are logged and do not
// stop the watcher.
func (w *DatasetWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.InfoContext(ctx, "watching dataset",
		slog.String("path", w.path),
		slog.Duration("debounce", w.debounce))
	close(w.ready)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("dataset watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.DebugContext(ctx, "dataset change detected",
				slog.String("file", event.Name),
				slog.String("op", event.Op.String()))
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.WarnContext(ctx, "watcher error", slog.String("error", err.Error()))

		case <-timer.C:
			pending = false
			w.fire(ctx)
		}
	}
}

func (w *DatasetWatcher) fire(ctx context.Context) {
	path := w.path
	if w.target == "" {
		resolved, err := ResolveDatasetPath(w.path)
		if err != nil {
			w.logger.WarnContext(ctx, "no dataset to reload", slog.String("error", err.Error()))
			return
		}
		path = resolved
	}

	if err := w.reload(ctx, path); err != nil {
		w.logger.ErrorContext(ctx, "dataset reload failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return
	}
	w.logger.InfoContext(ctx, "dataset reloaded", slog.String("path", path))
}
