package watcher

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the source must stay quiet before a rebuild.
const DefaultDebounce = 500 * time.Millisecond

// BuildFunc rebuilds the icons. It is never called concurrently.
type BuildFunc func(ctx context.Context) error

// Watcher reruns a build whenever one source file is written or replaced.
type Watcher struct {
	source   string
	build    BuildFunc
	watcher  *fsnotify.Watcher
	trigger  chan struct{}
	Debounce time.Duration
}

// New watches the directory containing source. Editors often replace a file
// rather than write it in place, so the directory is watched and events are
// filtered by name.
func New(source string, build BuildFunc) (*Watcher, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", source, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch folder %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		source:   abs,
		build:    build,
		watcher:  fsWatcher,
		trigger:  make(chan struct{}, 1),
		Debounce: DefaultDebounce,
	}, nil
}

// Run processes events until ctx is cancelled or the watcher is closed.
// Build errors are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	log.Printf("Watching %s", w.source)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.source {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			// Debounce: restart the quiet period on every event
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.Debounce, w.fire)

		case <-w.trigger:
			log.Printf("Source changed, rebuilding")
			if err := w.build(ctx); err != nil {
				log.Printf("Rebuild failed: %v", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) fire() {
	select {
	case w.trigger <- struct{}{}:
	default: // a rebuild is already pending
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
