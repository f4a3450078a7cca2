// Package watch reruns a callback when a source file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/hargabyte/bridgegen/internal/logging"
)

// DefaultDebounce batches the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Options configures File.
type Options struct {
	Debounce time.Duration
	Logger   *zap.Logger
}

// File watches path and calls onChange once per burst of writes, until ctx
// is canceled. The parent directory is watched so that editors that save
// by rename are still seen. Errors from onChange are logged and do not
// stop the watch. File returns nil when ctx is canceled.
func File(ctx context.Context, path string, opts Options, onChange func(context.Context) error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	log := logging.OrNop(opts.Logger).With(zap.String("path", abs))

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	log.Info("watching for changes")

	var (
		timer *time.Timer
		fire  <-chan time.Time // nil while no change is pending
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug("watch stopped")
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(event, abs) {
				continue
			}
			log.Debug("change detected", zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			if err := onChange(ctx); err != nil {
				log.Error("rerun failed", zap.Error(err))
			}
		}
	}
}

func relevant(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
