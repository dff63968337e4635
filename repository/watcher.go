package repository

import (
	"context"
	"fmt"
	"path/filepath"

	"trackstash/logger"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the library whenever the backing document is rewritten
// on disk, so edits made by another process become visible without a
// restart. It watches the parent directory rather than the file itself:
// editors and atomic writers replace the file, and a watch on the old
// inode would go stale. Blocks until ctx is cancelled.
func (r *JSONTrackRepository) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create store watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(r.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	base := filepath.Base(r.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			// Persist announces its own replacements; consume the marker
			// instead of reloading what is already in memory.
			if r.selfWrites.Load() > 0 {
				r.selfWrites.Add(-1)
				continue
			}
			if err := r.Reload(); err != nil {
				logger.Warn("failed to reload track store",
					logger.String("path", r.path),
					logger.ErrorField(err))
				continue
			}
			logger.Info("track store reloaded",
				logger.String("path", r.path),
				logger.Int("tracks", r.Count()))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("store watcher error", logger.ErrorField(err))
		}
	}
}
