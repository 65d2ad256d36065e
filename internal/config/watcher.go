package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDelay = 100 * time.Millisecond

// Watcher reloads a configuration file when it is written and hands the new
// configuration to its callbacks. Callbacks run on the watcher's goroutine;
// UI code must post them to the UI goroutine itself.
type Watcher struct {
	path string

	mu       sync.Mutex
	config   *Config
	onChange []func(old, new *Config)
	timer    *time.Timer

	fs      *fsnotify.Watcher
	errs    chan error
	done    chan struct{}
	stopped bool // guarded by mu; errs is closed once set
	closed  sync.Once
}

// Watch starts watching path. cfg is the configuration currently in use.
func Watch(path string, cfg *Config) (*Watcher, error) {
	if path == "" {
		path = ConfigPath()
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Editors replace files on save, so the directory is watched rather than
	// the file.
	if err := fs.Add(filepath.Dir(path)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	w := &Watcher{
		path:   path,
		config: cfg,
		fs:     fs,
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// OnChange registers cb. It is called with the previous and the reloaded
// configuration after every successful reload.
func (w *Watcher) OnChange(cb func(old, new *Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, cb)
}

// Config returns the configuration last loaded.
func (w *Watcher) Config() *Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.config
}

// Errors delivers reload failures. Errors are dropped when nobody reads them.
// The channel is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops watching.
func (w *Watcher) Close() error {
	var err error
	w.closed.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.stopped = true
		close(w.errs)
		w.mu.Unlock()
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != filepath.Base(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.timer = time.AfterFunc(reloadDelay, w.reload)
			w.mu.Unlock()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

// Reload reads the file now.
func (w *Watcher) Reload() error {
	cfg, err := Load(w.path)
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate new config: %w", err)
	}

	w.mu.Lock()
	old := w.config
	w.config = cfg
	callbacks := append([]func(old, new *Config){}, w.onChange...)
	w.mu.Unlock()

	for _, cb := range callbacks {
		cb(old, cfg)
	}
	return nil
}

func (w *Watcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}
	if err := w.Reload(); err != nil {
		w.report(err)
	}
}

func (w *Watcher) report(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	select {
	case w.errs <- err:
	default:
	}
}
