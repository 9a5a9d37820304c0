package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/muurk/confdoc/internal/config"
	"github.com/muurk/confdoc/internal/logging"
)

// DefaultDebounce is the quiet period after the last file event before a
// change is signalled
const DefaultDebounce = 100 * time.Millisecond

// Watcher signals when a single file is written or replaced. The parent
// directory is watched so that editors which save through a rename are
// still seen.
type Watcher struct {
	path     string
	base     string
	debounce time.Duration

	fs      *fsnotify.Watcher
	changes chan struct{}

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// New starts watching path. A zero debounce uses DefaultDebounce.
func New(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:     abs,
		base:     filepath.Base(abs),
		debounce: debounce,
		fs:       fs,
		changes:  make(chan struct{}, 1),
	}, nil
}

// Path returns the watched file
func (w *Watcher) Path() string { return w.path }

// Changes delivers one signal per burst of file events. Signals that are
// not consumed coalesce.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Run processes file events until ctx is done or the watcher is closed
func (w *Watcher) Run(ctx context.Context) {
	events := w.fs.Events
	errs := w.fs.Errors
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-errs:
			if !ok {
				return
			}
			logging.Warn("File watcher error", zap.String("path", w.path), zap.Error(err))
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if filepath.Base(ev.Name) != w.base {
		return
	}
	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	logging.LogWatchEvent(ev.Name, ev.Op.String())

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.signal)
}

func (w *Watcher) signal() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

// Close stops the watcher. Pending signals are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fs.Close()
}

// Follow keeps rw in sync with its file until ctx is done. It calls Sync on
// every signal from w and, when interval is positive, on every tick as a
// fallback for file systems without change events. onSync runs with a nil
// error after each reload, and with the recorded document errors after a
// failed one; those errors are then cleared. Follow runs on the caller's
// goroutine, which must be the only user of rw.
func Follow(ctx context.Context, w *Watcher, rw *config.ReaderWriter, interval time.Duration, onSync func(error)) {
	var tick <-chan time.Time
	if interval > 0 {
		t := time.NewTicker(interval)
		defer t.Stop()
		tick = t.C
	}
	var changes <-chan struct{}
	if w != nil {
		changes = w.Changes()
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
		case <-tick:
		}
		if rw.Sync() {
			if onSync != nil {
				onSync(nil)
			}
			continue
		}
		if rw.HasError() {
			err := rw.Err()
			rw.ClearErrors()
			if onSync != nil {
				onSync(err)
			}
		}
	}
}
