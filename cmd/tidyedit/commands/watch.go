package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/jmylchreest/tidyedit/internal/logger"
)

// sourceWatcher reports changes to a fixed set of files.
//
// Parent directories are watched rather than the files themselves, so
// editors that save by renaming a temporary file over the original keep
// triggering events.
type sourceWatcher struct {
	watcher *fsnotify.Watcher
	// targets maps absolute paths to the paths given on the command line.
	targets map[string]string
}

func newSourceWatcher(sources []string) (*sourceWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	sw := &sourceWatcher{watcher: w, targets: make(map[string]string, len(sources))}
	dirs := make(map[string]bool)
	for _, source := range sources {
		abs, err := filepath.Abs(source)
		if err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", source, err)
		}
		sw.targets[abs] = source
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return sw, nil
}

// Run calls onChange for each write or create event on a target until ctx
// is done. Failures are logged and do not stop the watch.
func (sw *sourceWatcher) Run(ctx context.Context, onChange func(string) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			source, ok := sw.targets[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			logger.Debug("change detected", "file", source, "op", ev.Op.String())
			if err := onChange(source); err != nil {
				logger.Error("failed to clean", "source", source, "error", err)
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

// Close stops watching.
func (sw *sourceWatcher) Close() error {
	return sw.watcher.Close()
}
