// Package watcher re-imports diagram files when they change on disk.
package watcher

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a directory for .graphol file changes
type Watcher struct {
	dir      string
	onChange func(path string)
	debounce time.Duration
}

// New creates a new directory watcher
func New(dir string, onChange func(path string)) *Watcher {
	return &Watcher{
		dir:      dir,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Watch starts watching the directory for changes
// It blocks until the context is cancelled or an error occurs
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}

	log.Printf("Watching %s for diagram changes", w.dir)

	// One timer per file so a burst of editor writes collapses into a
	// single re-import without suppressing changes to other files.
	debounceTimers := make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !strings.EqualFold(filepath.Ext(event.Name), ".graphol") {
				continue
			}

			// Handle write or create events
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				path := event.Name
				if timer, exists := debounceTimers[path]; exists {
					timer.Stop()
				}

				debounceTimers[path] = time.AfterFunc(w.debounce, func() {
					log.Printf("Diagram changed: %s", path)
					w.onChange(path)
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)

		case <-ctx.Done():
			for _, timer := range debounceTimers {
				timer.Stop()
			}
			return ctx.Err()
		}
	}
}
