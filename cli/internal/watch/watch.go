// Package watch calls back when a schema file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/satishbabariya/psyker-go/internal/debug"
)

// Debounce is the quiet period after the last event before the callback runs.
const Debounce = 200 * time.Millisecond

// Watcher watches a single file. Editors that replace the file instead of
// writing it in place are handled by watching the parent directory.
type Watcher struct {
	file     string
	callback func() error
	watcher  *fsnotify.Watcher
}

// New creates a watcher for file.
func New(file string, callback func() error) (*Watcher, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}
	return &Watcher{file: abs, callback: callback, watcher: w}, nil
}

// Run calls the callback once, then after every change of the file until
// ctx is done. Callback errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	w.call()

	timer := time.NewTimer(Debounce)
	timer.Stop()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if path, err := filepath.Abs(event.Name); err == nil && path == w.file {
				timer.Reset(Debounce)
			}
		case <-timer.C:
			w.call()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			debug.Warn("watch error", "file", w.file, "error", err)
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Watcher) call() {
	if err := w.callback(); err != nil {
		debug.Warn("watch callback failed", "file", w.file, "error", err)
	}
}
