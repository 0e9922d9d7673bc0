package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-reads a config file whenever it changes on disk
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	stopOnce  sync.Once

	// override runs on every reloaded config after the env overlay
	override func(*Config)

	Events chan *Config
	Errors chan error
	done   chan struct{}
}

// WatcherOption configures a Watcher
type WatcherOption func(*Watcher)

// WithOverride reapplies fn to every reloaded config, so values that came
// from outside the file (command-line flags) survive a reload
func WithOverride(fn func(*Config)) WatcherOption {
	return func(w *Watcher) {
		w.override = fn
	}
}

// NewWatcher creates a watcher for the config file at path. The parent
// directory is watched so that editors which replace the file are seen.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	cleanPath := filepath.Clean(path)
	if err := fsw.Add(filepath.Dir(cleanPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsw,
		path:      cleanPath,
		Events:    make(chan *Config, 1),
		Errors:    make(chan error, 10),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Path returns the watched file
func (w *Watcher) Path() string {
	return w.path
}

// Done is closed once the watcher stops
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Start begins watching for file changes
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

// watchLoop handles fsnotify events
func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

// handleFSEvent reloads the config when the watched file is written
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	cfg, err := Load(w.path)
	if err != nil {
		w.sendError(err)
		return
	}
	cfg = ApplyEnv(cfg)
	if w.override != nil {
		w.override(cfg)
	}

	// Only the newest config matters; replace one still waiting
	for {
		select {
		case w.Events <- cfg:
			return
		case <-w.done:
			return
		default:
		}
		select {
		case <-w.Events:
		default:
		}
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.Errors <- err:
	default:
		// Error channel full, drop
	}
}
