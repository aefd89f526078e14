package cliconfig

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/EmbeddedEvery/matrix-gui/pkg/log"
)

// debounceDelay is how long the watcher waits after a file change before
// reloading; editors often write a config file in several events.
const debounceDelay = 100 * time.Millisecond

// Watcher monitors the config file via fsnotify and delivers reloaded
// settings to a callback. The GUI uses it to pick up changed defaults
// (device name, timeouts) without a restart.
type Watcher struct {
	path     string
	onChange func(FileConfig)
	logger   log.Logger

	mu       sync.Mutex
	debounce *time.Timer
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string, onChange func(FileConfig), logger log.Logger) *Watcher {
	return &Watcher{
		path:     path,
		onChange: onChange,
		logger:   logger,
	}
}

// Run watches the config file's directory until ctx is done. A missing
// file or directory is not fatal; the watcher simply does nothing.
func (w *Watcher) Run(ctx context.Context) {
	if w.path == "" {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("config watcher unavailable", log.Err(err))
		return
	}
	defer watcher.Close()

	// Watch the directory, not the file: rename-into-place saves would
	// otherwise detach the watch.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		w.logger.Warn("config watcher: cannot watch directory",
			log.String("dir", filepath.Dir(w.path)),
			log.Err(err),
		)
		return
	}

	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.scheduleReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) scheduleReload(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		fc, err := LoadFileConfig(w.path)
		if err != nil {
			w.logger.Warn("config reload failed", log.String("path", w.path), log.Err(err))
			return
		}
		w.logger.Info("config reloaded", log.String("path", w.path))
		w.onChange(fc)
	})
}
