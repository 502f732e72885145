// Package watch re-runs a callback whenever a file is saved. It watches
// the file's directory so editors that save by renaming a temporary file
// over the original are noticed too.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the burst of events a single save produces.
const DefaultDebounce = 150 * time.Millisecond

// FileWatcher reports saves of one file.
type FileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// New watches path. The file does not need to exist yet, but its
// directory does.
func New(path string, debounce time.Duration) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	return &FileWatcher{path: abs, watcher: watcher, debounce: debounce}, nil
}

// Path returns the absolute path of the watched file.
func (w *FileWatcher) Path() string {
	return w.path
}

// Run calls onChange after every save until ctx is done. It returns nil
// on cancellation.
func (w *FileWatcher) Run(ctx context.Context, onChange func()) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func (w *FileWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// Close stops watching.
func (w *FileWatcher) Close() error {
	return w.watcher.Close()
}
