package index

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/sowilo/internal/content"
	"github.com/starford/sowilo/internal/storage"
)

// DefaultDebounce is how long Watch waits after the last change before
// re-syncing.
const DefaultDebounce = 200 * time.Millisecond

// EventCallback is called after a watcher-driven sync that changed the index.
type EventCallback func(stats SyncStats)

// Watch watches the content directory and re-syncs the index once changes
// settle, until ctx is cancelled. A build rewrites many files at once, so
// events are coalesced into a single Sync per burst.
func Watch(ctx context.Context, db *DB, reader *content.Reader, dir string, debounce time.Duration, logger *slog.Logger, cb EventCallback) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("dir", dir))

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
			return
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			stats, err := Sync(db, reader, logger)
			if err != nil {
				logger.Warn("watcher: sync failed", slog.String("error", err.Error()))
				continue
			}
			if !stats.Changed() {
				continue
			}
			logger.Info("watcher: synced",
				slog.Int("indexed", stats.Indexed),
				slog.Int("removed", stats.Removed))
			if cb != nil {
				cb(stats)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !storage.IsMarkdown(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
