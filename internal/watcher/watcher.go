// Package watcher watches the routes file for changes with debouncing,
// so editor save bursts trigger a single rescan.
package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler is invoked after the watched file changes and the
// debounce window has elapsed.
type ChangeHandler func()

// FileWatcher watches a single file for writes, creations, and renames.
// Watching the containing directory instead of the file itself keeps
// the watch alive across editors that replace the file on save.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
}

// New creates a watcher for the given file path.
func New(path string, debounce time.Duration) (*FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	return &FileWatcher{
		watcher:  fsw,
		path:     abs,
		debounce: debounce,
	}, nil
}

// Start begins watching until the context is cancelled, invoking handler
// after each debounced batch of changes to the watched file.
func (w *FileWatcher) Start(ctx context.Context, handler ChangeHandler) {
	go w.run(ctx, handler)
}

func (w *FileWatcher) run(ctx context.Context, handler ChangeHandler) {
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.matches(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			handler()

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *FileWatcher) matches(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return abs == w.path
}

// Close releases the underlying fsnotify watcher.
func (w *FileWatcher) Close() error {
	return w.watcher.Close()
}
