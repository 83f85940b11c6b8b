package profile

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileWatcher polls file modification times and triggers a callback on change.
// Files that appear or disappear count as changes; Globs are re-expanded on
// every scan so new profiles are picked up.
type FileWatcher struct {
	Paths    []string
	Globs    []string
	Interval time.Duration

	onChange  func(string) // called with path that changed
	stopOnce  sync.Once
	stopCh    chan struct{}
	lastMTime map[string]time.Time
}

// NewFileWatcher creates a watcher for given paths and interval.
func NewFileWatcher(paths, globs []string, interval time.Duration, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		Paths:     paths,
		Globs:     globs,
		Interval:  interval,
		onChange:  onChange,
		stopCh:    make(chan struct{}),
		lastMTime: make(map[string]time.Time),
	}
}

// WatchLoader watches the default layer and every profile of a loader.
func WatchLoader(l *Loader, interval time.Duration, onChange func(string)) *FileWatcher {
	p := l.Paths()
	return NewFileWatcher(
		[]string{p.DefaultPath()},
		[]string{p.ProfilePath("*")},
		interval,
		onChange,
	)
}

// Start primes the mtimes and begins polling in a goroutine until ctx ends or Stop is called.
func (w *FileWatcher) Start(ctx context.Context) {
	w.scanAll(true)
	ticker := time.NewTicker(w.Interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.scanAll(false)
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher. Safe to call more than once.
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *FileWatcher) targets() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range w.Paths {
		add(p)
	}
	for _, g := range w.Globs {
		matches, _ := filepath.Glob(g)
		for _, m := range matches {
			add(m)
		}
	}
	// files seen earlier but gone now
	for p := range w.lastMTime {
		add(p)
	}
	sort.Strings(out)
	return out
}

// scanAll checks mtimes and invokes onChange for files that changed since last scan.
func (w *FileWatcher) scanAll(prime bool) {
	for _, p := range w.targets() {
		last, known := w.lastMTime[p]
		fi, err := os.Stat(p)
		if err != nil {
			if known {
				delete(w.lastMTime, p)
				w.notify(p, prime)
			}
			continue
		}
		mt := fi.ModTime()
		if !known || mt.After(last) {
			w.lastMTime[p] = mt
			w.notify(p, prime)
		}
	}
}

func (w *FileWatcher) notify(path string, prime bool) {
	if !prime && w.onChange != nil {
		w.onChange(path)
	}
}
