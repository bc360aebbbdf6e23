package store

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the directory holding the dataset file
// and reloads st after each change, until ctx is cancelled. cb (if non-nil)
// receives every reload outcome except KindUnchanged.
//
// The directory rather than the file is watched: editors that save through a
// rename replace the inode, which would silently end a file watch.
func Watch(ctx context.Context, st *Store, l *Loader, debounce time.Duration, cb func(ReloadEvent)) error {
	root := l.Provider.Root()
	if root == "" {
		return fmt.Errorf("store: watch: provider is not file-backed")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	target := filepath.Join(root, filepath.FromSlash(l.File))
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	logger := l.logger()
	logger.Info("watcher: started", slog.String("file", target))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(debounce)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			ev := l.Reload(st)
			if ev.Kind != KindUnchanged && cb != nil {
				cb(ev)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logger.Debug("watcher: change", slog.String("op", ev.Op.String()))
			scheduleReload()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
