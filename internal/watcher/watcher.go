// Package watcher triggers archive runs when Firefox writes a new bookmark backup.
package watcher

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch starts an fsnotify watcher on the bookmarkbackups directory and
// invokes onBackup after backup file activity settles. Firefox writes a
// snapshot with several Create/Write events in quick succession, so
// triggers are debounced; only .jsonlz4 and .json files count.
//
// Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, dir string, debounce time.Duration, logger *slog.Logger, onBackup func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("dir", dir))

	var trigger *time.Timer
	var triggerCh <-chan time.Time

	schedule := func() {
		if trigger == nil {
			trigger = time.NewTimer(debounce)
			triggerCh = trigger.C
		} else {
			trigger.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if trigger != nil {
				trigger.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-triggerCh:
			logger.Info("watcher: backup changed, triggering run")
			onBackup()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if !isBackupName(ev.Name) {
				continue
			}
			logger.Debug("watcher: backup event",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func isBackupName(name string) bool {
	return strings.HasSuffix(name, ".jsonlz4") || strings.HasSuffix(name, ".json")
}
