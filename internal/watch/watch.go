// Package watch reports changes to documents on disk.
//
// A [Watcher] listens with fsnotify, folds bursts of events for one file
// into a single call after a quiet period, and calls its [Handler] from
// the goroutine running [Watcher.Run], one event at a time.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/thoreinstein/matter/internal/errors"
)

// DefaultDelay is the quiet period before a change is reported.
const DefaultDelay = 100 * time.Millisecond

// DefaultPattern selects the file names reported in watched directories.
const DefaultPattern = "*.{md,markdown,mdx}"

// Event is a debounced change to one file.
type Event struct {
	Path    string
	Removed bool
}

// Handler receives events.
type Handler func(ctx context.Context, ev Event)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the debounce period.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) { w.delay = d }
}

// WithPattern sets the doublestar pattern file names in watched
// directories must match. Files added by name are always reported.
func WithPattern(p string) Option {
	return func(w *Watcher) { w.pattern = p }
}

// Watcher watches files and directory trees.
type Watcher struct {
	logger  *slog.Logger
	handler Handler
	delay   time.Duration
	pattern string

	fw   *fsnotify.Watcher
	due  chan tick
	done chan struct{}

	mu    sync.Mutex
	files map[string]bool // watched by name
	dirs  map[string]bool // watched recursively

	timers  map[string]*time.Timer
	pending map[string]Event
	gen     map[string]uint64 // bumped on every event for a path
}

// tick is a debounce timer firing for the gen-th event on path. A timer
// that fires after a later event replaced it carries a stale gen.
type tick struct {
	path string
	gen  uint64
}

// New creates a Watcher. Call Add, then Run.
func New(logger *slog.Logger, handler Handler, opts ...Option) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if handler == nil {
		return nil, errors.New("watch: nil handler")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating watcher")
	}

	w := &Watcher{
		logger:  logger,
		handler: handler,
		delay:   DefaultDelay,
		pattern: DefaultPattern,
		fw:      fw,
		due:     make(chan tick),
		done:    make(chan struct{}),
		files:   make(map[string]bool),
		dirs:    make(map[string]bool),
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]Event),
		gen:     make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(w)
	}
	if !doublestar.ValidatePattern(w.pattern) {
		_ = fw.Close()
		return nil, errors.Wrapf(doublestar.ErrBadPattern, "%q", w.pattern)
	}
	return w, nil
}

// Add watches each path. Directories are watched with all their
// subdirectories except hidden ones; files are watched through their
// parent directory.
func (w *Watcher) Add(paths ...string) error {
	for _, p := range paths {
		p = filepath.Clean(p)
		info, err := os.Stat(p)
		if err != nil {
			return errors.Wrapf(err, "watching %s", p)
		}
		if info.IsDir() {
			if err := w.addTree(p); err != nil {
				return err
			}
			continue
		}
		if err := w.fw.Add(filepath.Dir(p)); err != nil {
			return errors.Wrapf(err, "watching %s", p)
		}
		w.mu.Lock()
		w.files[p] = true
		w.mu.Unlock()
	}
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fw.Add(path); err != nil {
			return errors.Wrapf(err, "watching %s", path)
		}
		w.mu.Lock()
		w.dirs[path] = true
		w.mu.Unlock()
		return nil
	})
}

// Run delivers events until ctx is done, then releases the watcher.
// It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fw.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			w.handleFSEvent(ev)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("watch error", "error", err)

		case t := <-w.due:
			w.fire(ctx, t)
		}
	}
}

// fire delivers the pending event for t.path unless a later event has
// restarted its quiet period.
func (w *Watcher) fire(ctx context.Context, t tick) {
	if t.gen != w.gen[t.path] {
		return
	}
	ev, ok := w.pending[t.path]
	if !ok {
		return
	}
	delete(w.pending, t.path)
	delete(w.timers, t.path)
	delete(w.gen, t.path)
	w.logger.Debug("document changed", "path", ev.Path, "removed", ev.Removed)
	w.handler(ctx, ev)
}

func (w *Watcher) handleFSEvent(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)

	if ev.Has(fsnotify.Create) && w.inTree(path) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !strings.HasPrefix(info.Name(), ".") {
				if err := w.addTree(path); err != nil {
					w.logger.Warn("cannot watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}

	if !w.wanted(path) {
		return
	}

	var removed bool
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		removed = true
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
	default:
		return
	}

	w.pending[path] = Event{Path: path, Removed: removed}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.gen[path]++
	t := tick{path: path, gen: w.gen[path]}
	w.timers[path] = time.AfterFunc(w.delay, func() {
		select {
		case w.due <- t:
		case <-w.done:
		}
	})
}

func (w *Watcher) inTree(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirs[filepath.Dir(path)]
}

func (w *Watcher) wanted(path string) bool {
	w.mu.Lock()
	named := w.files[path]
	w.mu.Unlock()
	if named {
		return true
	}
	if !w.inTree(path) {
		return false
	}
	ok, _ := doublestar.Match(w.pattern, filepath.Base(path))
	return ok
}

func (w *Watcher) stop() {
	close(w.done)
	for _, t := range w.timers {
		t.Stop()
	}
	if err := w.fw.Close(); err != nil {
		w.logger.Debug("closing watcher", "error", err)
	}
}
