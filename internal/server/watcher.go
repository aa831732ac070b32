package server

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the page file and triggers a reload when it changes.
// Editors typically fire several write events per save, so reloads are
// debounced.
type Watcher struct {
	watcher  *fsnotify.Watcher
	pageFile string
	onReload func() error
	debounce time.Duration
	done     chan struct{}
	debug    bool
}

// NewWatcher creates a watcher for the given page file.
func NewWatcher(pageFile string, debounce time.Duration, onReload func() error, debug bool) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the containing directory: editors that save via rename replace
	// the file's inode, which silently drops a file-level watch.
	dir := filepath.Dir(pageFile)
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	return &Watcher{
		watcher:  fsWatcher,
		pageFile: filepath.Clean(pageFile),
		onReload: onReload,
		debounce: debounce,
		done:     make(chan struct{}),
		debug:    debug,
	}, nil
}

// Start begins watching for changes.
func (w *Watcher) Start() {
	go func() {
		var timer *time.Timer
		var timerC <-chan time.Time

		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.pageFile {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if w.debug {
					log.Printf("[Watch] Page file changed: %s (%s)", event.Name, event.Op)
				}
				if timer == nil {
					timer = time.NewTimer(w.debounce)
					timerC = timer.C
				} else {
					timer.Reset(w.debounce)
				}

			case <-timerC:
				if err := w.onReload(); err != nil {
					log.Printf("[Watch] Reload failed: %v", err)
				}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[Watch] Error: %v", err)

			case <-w.done:
				return
			}
		}
	}()
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}
