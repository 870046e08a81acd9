// Package watch reports changes to the reference storage of a git
// directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thiagokokada/gitref/internal/debounce"
)

const DefaultDelay = 350 * time.Millisecond

// Watcher calls its callback after the refs below a git directory change.
// Bursts of filesystem events closer than the delay result in one call.
type Watcher struct {
	delay    time.Duration
	onChange func()

	watcher *fsnotify.Watcher

	mu       sync.Mutex
	closed   bool
	debounce *debounce.Debouncer
}

func New(gitDir string, delay time.Duration, onChange func()) (*Watcher, error) {
	if delay <= 0 {
		delay = DefaultDelay
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &Watcher{delay: delay, onChange: onChange, watcher: watcher}
	for path := range Paths(gitDir) {
		if err := w.add(path); err != nil {
			return nil, errors.Join(err, watcher.Close())
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	slog.Debug("adding path to FS watcher", slog.String("path", path))
	if err := w.watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	return nil
}

// Run handles filesystem events until ctx is done or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	if shouldIgnore(ev.Name) {
		return
	}
	slog.Debug("fsnotify event",
		slog.String("op", ev.Op.String()),
		slog.String("path", ev.Name),
	)
	if ev.Has(fsnotify.Create) {
		// fsnotify is not recursive, new ref directories need their own watch.
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			for path := range walkDirs(ev.Name) {
				if err := w.add(path); err != nil {
					slog.Warn("failed to watch new directory", slog.Any("error", err))
				}
			}
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	debounce.Ensure(&w.debounce, w.delay, w.onChange).Trigger()
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.debounce != nil {
		w.debounce.Stop()
		w.debounce = nil
	}
	return w.watcher.Close()
}

// Paths yields the directories to watch for gitDir: the directory itself,
// for HEAD and packed-refs, and every directory below refs.
func Paths(gitDir string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if gitDir == "" {
			return
		}
		if !yield(gitDir) {
			return
		}
		for path := range walkDirs(filepath.Join(gitDir, "refs")) {
			if !yield(path) {
				return
			}
		}
	}
}

func walkDirs(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return fs.SkipAll
				}
				return nil
			}
			if !d.IsDir() {
				return nil
			}
			if !yield(path) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

// shouldIgnore filters out lock files git writes while updating refs;
// the rename into place that follows is reported on its own.
func shouldIgnore(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".lock" || ext == ".ipc"
}
