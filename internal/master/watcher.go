package master

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the master tables whenever the YAML file changes, swapping
// the holder on a successful build. A failed reload keeps the previous
// tables active and is only logged.
//
// The parent directory is watched rather than the file itself: editors and
// config-management tools replace files by rename, which would otherwise
// drop the watch.
func Watch(ctx context.Context, h *Holder, path string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("master watcher: started", slog.String("path", path))

	// Debounce bursts of events from a single save.
	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(300 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(300 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("master watcher: stopped")
			return nil

		case <-reloadCh:
			m, loadErr := Load(path, logger)
			if loadErr != nil {
				logger.Error("master watcher: reload failed, keeping previous tables",
					slog.String("error", loadErr.Error()))
				continue
			}
			h.Swap(m)
			logger.Info("master watcher: tables reloaded",
				slog.Int("processes", len(m.Processes)),
				slog.Int("categories", len(m.Categories)))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("master watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
