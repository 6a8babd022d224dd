package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a config file and delivers reloaded configurations.
//
// Editors replace config files with rename-and-write dances, so the parent
// directory is watched rather than the file itself, and reloads are
// debounced until the file has been quiet for the debounce interval. The
// consumer applies the fresh thresholds between gestures; the detector
// never sees a mid-gesture mutation.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration

	configs chan *Config
	errors  chan error

	mu      sync.Mutex
	dirtyAt time.Time

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher creates a watcher for the given config file.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		path:      abs,
		debounce:  debounce,
		configs:   make(chan *Config, 4),
		errors:    make(chan error, 4),
		done:      make(chan struct{}),
	}, nil
}

// Configs returns the channel of reloaded configurations.
func (w *Watcher) Configs() <-chan *Config { return w.configs }

// Errors returns the channel of reload errors. A failed reload never
// replaces the last good configuration.
func (w *Watcher) Errors() <-chan error { return w.errors }

// Start begins watching the config file's directory.
func (w *Watcher) Start() error {
	if err := w.fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.wg.Add(2)
	go w.eventLoop()
	go w.debounceLoop()
	return nil
}

// Stop gracefully shuts down the watcher.
func (w *Watcher) Stop() error {
	close(w.done)
	w.wg.Wait()
	close(w.configs)
	close(w.errors)
	return w.fsWatcher.Close()
}

// eventLoop marks the file dirty on relevant filesystem events.
func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			w.dirtyAt = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// debounceLoop reloads once the file has been stable for the debounce
// interval.
func (w *Watcher) debounceLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return

		case now := <-ticker.C:
			w.mu.Lock()
			dirty := !w.dirtyAt.IsZero() && now.Sub(w.dirtyAt) >= w.debounce
			if dirty {
				w.dirtyAt = time.Time{}
			}
			w.mu.Unlock()
			if !dirty {
				continue
			}

			cfg, err := Load(w.path)
			if err != nil {
				select {
				case w.errors <- err:
				default:
				}
				continue
			}
			select {
			case w.configs <- cfg:
			default:
				// Consumer lagging; the next change wins anyway.
			}
		}
	}
}
