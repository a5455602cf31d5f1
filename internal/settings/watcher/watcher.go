// Package watcher provides the fsnotify-backed user-directory watcher used
// for settings live reload.
//
// One watcher observes the store's user record directory. Editors typically
// emit several filesystem events per save, so changes are debounced per
// path; the callback receives the file path once per burst.
package watcher

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"keyloom/internal/logging"
)

// Callback receives the path of a changed record file.
type Callback func(path string)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce window for rapid changes to one path.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.log = l.WithComponent("watcher")
	}
}

// Watcher watches one directory of user record files.
type Watcher struct {
	dir      string
	delay    time.Duration
	onChange Callback
	log      *logging.Logger

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool

	closeCh chan struct{}
	wg      sync.WaitGroup
}

// New creates and starts a watcher for dir. The directory is created when
// missing so it can be watched before the first record is written.
func New(dir string, onChange Callback, opts ...Option) (*Watcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("watcher: nil callback")
	}

	w := &Watcher{
		dir:      dir,
		delay:    100 * time.Millisecond,
		onChange: onChange,
		log:      logging.Default().WithComponent("watcher"),
		pending:  make(map[string]*time.Timer),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating watch dir %s: %w", dir, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("starting watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Close stops the watcher and cancels pending debounce timers. Safe to call
// more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	close(w.closeCh)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// processLoop handles incoming fsnotify events until Close.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)
		}
	}
}

// handleEvent debounces one filesystem event per path.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	relevant := event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename)
	if !relevant {
		return
	}

	path := event.Name

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.delay)
		return
	}
	w.pending[path] = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		closed := w.closed
		w.mu.Unlock()

		if !closed {
			w.onChange(path)
		}
	})
}
