// Package watch streams file events from a run directory so a second
// terminal can follow artifacts as the pipeline writes them.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is one observed artifact change.
type Event struct {
	// Path is relative to the watched root.
	Path string
	// Op names the change: created, modified, removed, renamed.
	Op string
	// Time is when the event was observed.
	Time time.Time
}

// Watcher follows a run directory recursively. Stage directories created
// after watching starts are picked up automatically.
type Watcher struct {
	root string
	fsw  *fsnotify.Watcher

	mu     sync.Mutex
	closed bool
}

// New builds a watcher rooted at dir. The directory must exist.
func New(dir string) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root %s is not a directory", dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{root: dir, fsw: fsw}
	if err := w.addRecursive(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Events starts streaming. The channel closes when ctx is cancelled or the
// watcher is closed.
func (w *Watcher) Events(ctx context.Context) <-chan Event {
	out := make(chan Event, 64)
	go w.loop(ctx, out)
	return out
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.fsw.Close()
}

func (w *Watcher) loop(ctx context.Context, out chan<- Event) {
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if skipEvent(ev.Name) {
				continue
			}

			// New stage directories need their own watch.
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(ev.Name)
				}
			}

			rel, err := filepath.Rel(w.root, ev.Name)
			if err != nil {
				rel = ev.Name
			}
			out <- Event{Path: rel, Op: opName(ev), Time: time.Now()}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if werr := w.fsw.Add(path); werr != nil {
				return fmt.Errorf("watching %s: %w", path, werr)
			}
		}
		return nil
	})
}

// skipEvent drops the atomic-write temp files the artifact writer uses.
func skipEvent(name string) bool {
	return strings.HasSuffix(name, ".tmp")
}

func opName(ev fsnotify.Event) string {
	switch {
	case ev.Has(fsnotify.Create):
		return "created"
	case ev.Has(fsnotify.Write):
		return "modified"
	case ev.Has(fsnotify.Remove):
		return "removed"
	case ev.Has(fsnotify.Rename):
		return "renamed"
	default:
		return ev.Op.String()
	}
}
