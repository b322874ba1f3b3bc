// Package watcher provides config file watching with debouncing and
// line-level change summaries.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ehartline/armature/internal/log"
	"github.com/ehartline/armature/internal/pubsub"
)

// ReloadEvent describes one config file change after debouncing.
type ReloadEvent struct {
	Path         string
	LinesAdded   int
	LinesRemoved int
	Summary      string
}

// Watcher monitors the config file for changes and publishes reload events.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	broker    *pubsub.Broker[ReloadEvent]
	prev      string
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	Path     string
	Debounce time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(path string) Config {
	return Config{
		Path:     path,
		Debounce: 250 * time.Millisecond,
	}
}

// New creates a new config file watcher.
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("watcher path is required")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}

	return &Watcher{
		fsWatcher: fsw,
		path:      cfg.Path,
		debounce:  debounce,
		broker:    pubsub.NewBroker[ReloadEvent](),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the directory containing the config file.
// Changes are published to subscribers after the debounce window.
func (w *Watcher) Start() error {
	// Baseline for diffing. A missing file is an empty baseline.
	if data, err := os.ReadFile(w.path); err == nil {
		w.prev = string(data)
	}

	// Watch the directory rather than the file itself: atomic saves
	// replace the file, which would silently drop a file-level watch.
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}

	log.Debug(log.CatWatcher, "Watching config file", "path", w.path, "debounce", w.debounce)
	go w.loop()

	return nil
}

// Subscribe returns a channel of reload events. The subscription is
// removed when ctx is cancelled.
func (w *Watcher) Subscribe(ctx context.Context) <-chan pubsub.Event[ReloadEvent] {
	return w.broker.Subscribe(ctx)
}

// Broker exposes the underlying event broker so callers can attach
// continuous listeners.
func (w *Watcher) Broker() *pubsub.Broker[ReloadEvent] {
	return w.broker
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	err := w.fsWatcher.Close()
	w.broker.Close()
	return err
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = true
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
				pending = true
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				w.publishReload()
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "Watcher error", err, "path", w.path)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// publishReload reads the changed file, diffs it against the previous
// contents, and publishes a reload event to subscribers.
func (w *Watcher) publishReload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		log.ErrorErr(log.CatWatcher, "Failed to read config after change", err, "path", w.path)
		return
	}

	current := string(data)
	if current == w.prev {
		log.Debug(log.CatWatcher, "File event with no content change", "path", w.path)
		return
	}

	added, removed := countLineChanges(w.prev, current)
	w.prev = current

	event := ReloadEvent{
		Path:         w.path,
		LinesAdded:   added,
		LinesRemoved: removed,
		Summary:      fmt.Sprintf("+%d/-%d lines", added, removed),
	}

	log.Info(log.CatWatcher, "Config changed", "path", w.path, "diff", event.Summary)
	w.broker.Publish(pubsub.ChangedEvent, w.path, event)
}

// isRelevantEvent checks if the event should trigger a reload.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	// Writes, creates, and renames all signal a config change. Atomic
	// saves rename a temp file into place, which arrives as Create or
	// Rename rather than Write.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}

	return filepath.Base(event.Name) == filepath.Base(w.path)
}
