package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/curricula/internal/logger"
)

// watchFile calls onChange once per burst of changes to path and blocks
// until ctx is cancelled. The parent directory is watched because editors
// usually replace a file on save rather than writing it in place.
func watchFile(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !isContentChange(event.Op) {
				continue
			}
			logger.Debug("watch: %s", event)
			timer.Reset(debounce)
			pending = true

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)

		case <-timer.C:
			if pending {
				pending = false
				onChange()
			}
		}
	}
}

// isContentChange ignores chmod and the removal half of an atomic save.
func isContentChange(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create)
}
