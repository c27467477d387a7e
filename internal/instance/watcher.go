package instance

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// reloadDebounce coalesces the burst of filesystem events an editor or
// extraction produces into a single registry reload.
const reloadDebounce = 500 * time.Millisecond

// Watcher reloads the store when instance directories change on disk. It
// watches the root and every instance directory under it, picking up new
// directories as they appear.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	done    chan struct{}
	stopped bool
}

// NewWatcher creates a watcher for the store's root. Call Start to begin
// receiving events.
func NewWatcher(store *Store) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	return &Watcher{
		store:    store,
		watcher:  fsw,
		debounce: reloadDebounce,
		done:     make(chan struct{}),
	}, nil
}

// Start registers the instance root and its subdirectories and begins
// processing events.
func (w *Watcher) Start() error {
	if err := w.addRecursive(w.store.Root()); err != nil {
		return err
	}
	go w.run()
	log.WithField("path", w.store.Root()).Debug("instance watcher started")
	return nil
}

// Stop ends event processing and releases the underlying watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	if w.timer != nil {
		w.timer.Stop()
	}
	return w.watcher.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.WithField("error", err).Warn("instance watcher error")
		}
	}
}

// handleEvent schedules a reload for manifest and directory changes. A newly
// created directory is added to the watch set immediately so its manifest
// write is not missed.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		if err := w.addRecursive(event.Name); err != nil {
			log.WithFields(log.Fields{"path": event.Name, "error": err}).Debug("could not watch new path")
		}
	}

	if filepath.Base(event.Name) != InstanceFileName && event.Op&(fsnotify.Remove|fsnotify.Rename|fsnotify.Create) == 0 {
		return
	}
	w.scheduleReload()
}

// scheduleReload arms the debounce timer, extending it while events keep
// arriving.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if err := w.store.LoadAll(); err != nil {
			log.WithField("error", err).Warn("instance reload failed")
		}
	})
}

// addRecursive watches path and every directory below it. Non-directories are
// ignored.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return w.watcher.Add(path)
	})
}
