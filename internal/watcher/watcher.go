// Package watcher reports settled document files in a directory using fsnotify.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/lwb-ingest/internal/logger"
)

// DefaultDebounce is how long a file must stay quiet before it is reported.
const DefaultDebounce = time.Second

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("watcher closed")

// ChangeType describes what happened to a file.
type ChangeType string

// Change types.
const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
)

// Change is a file that was written and then left alone for the debounce period.
type Change struct {
	Type ChangeType
	Path string
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithExtensions limits reported files to the given extensions (".docx").
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		w.exts = make(map[string]bool, len(exts))
		for _, e := range exts {
			w.exts[strings.ToLower(e)] = true
		}
	}
}

// Watcher watches one directory, non-recursively.
type Watcher struct {
	root     string
	debounce time.Duration
	exts     map[string]bool

	mu     sync.Mutex
	fsw    *fsnotify.Watcher
	closed bool
}

// New creates a watcher for root. Watching starts with Watch.
func New(root string, opts ...Option) *Watcher {
	w := &Watcher{
		root:     root,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type pending struct {
	gen     int
	created bool
	timer   *time.Timer
}

type fired struct {
	path string
	gen  int
}

// Watch starts watching and returns settled changes. The channel is closed
// when ctx is cancelled or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan Change, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, ErrClosed
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(w.root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", w.root, err)
	}
	w.fsw = fsw

	out := make(chan Change)
	go w.loop(ctx, fsw, out)
	return out, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- Change) {
	defer close(out)

	done := make(chan struct{})
	ready := make(chan fired)
	waiting := make(map[string]*pending)
	defer func() {
		close(done)
		for _, p := range waiting {
			p.timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.matches(ev.Name) {
				continue
			}
			switch {
			case ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write):
				w.schedule(waiting, ev, ready, done)
			case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
				if p, ok := waiting[ev.Name]; ok {
					p.timer.Stop()
					delete(waiting, ev.Name)
				}
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch %s: %v", w.root, err)

		case f := <-ready:
			p, ok := waiting[f.path]
			if !ok || p.gen != f.gen {
				continue
			}
			delete(waiting, f.path)

			change := Change{Type: ChangeUpdated, Path: f.path}
			if p.created {
				change.Type = ChangeCreated
			}
			select {
			case out <- change:
			case <-ctx.Done():
				return
			}
		}
	}
}

// schedule restarts the quiet period for the event's file.
func (w *Watcher) schedule(waiting map[string]*pending, ev fsnotify.Event, ready chan<- fired, done <-chan struct{}) {
	p, ok := waiting[ev.Name]
	if !ok {
		p = &pending{}
		waiting[ev.Name] = p
	} else {
		p.timer.Stop()
	}
	p.gen++
	if ev.Has(fsnotify.Create) {
		p.created = true
	}

	f := fired{path: ev.Name, gen: p.gen}
	p.timer = time.AfterFunc(w.debounce, func() {
		select {
		case ready <- f:
		case <-done:
		}
	})
}

// matches skips hidden files, editor lock files and unlisted extensions.
func (w *Watcher) matches(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$") {
		return false
	}
	if len(w.exts) == 0 {
		return true
	}
	return w.exts[strings.ToLower(filepath.Ext(base))]
}
