// Package watcher reports changes to a local data source file so the store
// can reload it. It uses fsnotify on the containing directory and falls back
// to stat polling when fsnotify is unavailable or TREEPICK_FORCE_POLL is set.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/treepick/pkg/debug"
)

// DefaultPollInterval is the default polling interval for fallback mode.
const DefaultPollInterval = 2 * time.Second

// Common errors.
var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the debounce duration.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounceDuration = d
	}
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.pollInterval = d
	}
}

// WithOnChange sets the callback invoked when the file changes.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// WithOnError sets the callback invoked on errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithForcePoll forces polling mode even if fsnotify is available.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) {
		w.forcePoll = force
	}
}

// fingerprint summarises the data file and its SQLite sidecars.
type fingerprint struct {
	exists bool
	mtime  time.Time
	size   int64
}

func (f fingerprint) differs(o fingerprint) bool {
	return f.exists != o.exists || !f.mtime.Equal(o.mtime) || f.size != o.size
}

// Watcher monitors a data file for changes.
type Watcher struct {
	path             string
	names            map[string]bool
	debounceDuration time.Duration
	pollInterval     time.Duration
	onChange         func()
	onError          func(error)
	forcePoll        bool

	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	polling   bool
	last      fingerprint

	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}
}

// New creates a watcher for path. Nothing happens until Start.
func New(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:             absPath,
		names:            watchedNames(absPath),
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		onChange:         func() {},
		onError:          func(error) {},
		changeCh:         make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.debounceDuration)
	return w, nil
}

// Start begins watching. A file that does not exist yet is fine; its
// creation counts as a change.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}
	if _, err := os.Stat(w.path); err != nil && os.IsPermission(err) {
		return ErrPermission
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.last = w.stat()
	w.polling = w.forcePoll || envBool("TREEPICK_FORCE_POLL")

	if !w.polling {
		fsw, err := fsnotify.NewWatcher()
		switch {
		case err != nil:
			debug.Log("watcher: fsnotify unavailable, polling: %v", err)
			w.polling = true
		case fsw.Add(filepath.Dir(w.path)) != nil:
			// Directory watches see atomic rename-over saves; a file watch
			// would not.
			fsw.Close()
			w.polling = true
		default:
			w.fsWatcher = fsw
			go w.watchFsnotify(ctx, fsw.Events, fsw.Errors)
		}
	}
	if w.polling {
		go w.watchPolling(ctx)
	}

	w.started = true
	debug.Log("watcher: watching %s (polling=%v)", w.path, w.polling)
	return nil
}

// Stop stops watching the file. The Changed channel stays open so a
// goroutine blocked on it is not woken with a spurious change.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.cancel()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	w.debouncer.Cancel()
	w.started = false
}

// IsPolling returns true if the watcher is using polling mode.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

// IsStarted returns true if the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Changed returns a channel that receives when the file changes.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// watchedNames is the file itself plus the SQLite sidecar files a writer
// touches instead of the main database in WAL or rollback mode.
func watchedNames(path string) map[string]bool {
	base := filepath.Base(path)
	return map[string]bool{
		base:              true,
		base + "-wal":     true,
		base + "-journal": true,
	}
}

// stat folds the main file and any sidecars into one fingerprint.
func (w *Watcher) stat() fingerprint {
	var fp fingerprint
	dir := filepath.Dir(w.path)
	for name := range w.names {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if filepath.Join(dir, name) == w.path {
			fp.exists = true
		}
		if info.ModTime().After(fp.mtime) {
			fp.mtime = info.ModTime()
		}
		fp.size += info.Size()
	}
	return fp
}

func (w *Watcher) watchFsnotify(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) {
	main := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			name := filepath.Base(event.Name)
			if !w.names[name] {
				continue
			}
			switch {
			case event.Op&fsnotify.Remove != 0 && name == main:
				w.onError(ErrFileRemoved)
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.debouncer.Trigger(w.notifyChange)
			}

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) watchPolling(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if _, err := os.Stat(w.path); err != nil && os.IsPermission(err) {
			w.onError(ErrPermission)
			continue
		}

		current := w.stat()
		w.mu.Lock()
		prev := w.last
		w.last = current
		w.mu.Unlock()

		switch {
		case prev.exists && !current.exists:
			w.onError(ErrFileRemoved)
		case current.exists && current.differs(prev):
			w.debouncer.Trigger(w.notifyChange)
		}
	}
}

// notifyChange invokes the onChange callback and signals the change channel.
func (w *Watcher) notifyChange() {
	if !w.IsStarted() {
		return
	}
	w.onChange()
	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
