package scan

import (
	"path/filepath"
	"sync"
)

// Tracker remembers which files of the watched directory have been seen, so that
// each rescan only reports files that appeared since.
type Tracker struct {
	mu   sync.Mutex
	dir  string
	opts Options
	seen map[string]struct{}
}

// NewTracker creates a tracker with no directory.
func NewTracker(opts Options) *Tracker {
	return &Tracker{opts: opts, seen: make(map[string]struct{})}
}

// SetDir switches to another directory and forgets every seen file.
func (t *Tracker) SetDir(dir string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if dir != "" {
		dir = filepath.Clean(dir)
	}
	t.dir = dir
	clear(t.seen)
}

// Dir returns the tracked directory.
func (t *Tracker) Dir() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dir
}

// SetOptions changes the filter used by subsequent scans.
func (t *Tracker) SetOptions(opts Options) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.opts = opts
}

// Scan lists the directory and returns the files not marked seen yet, oldest first.
// It does not mark anything; callers mark the files they managed to act on.
func (t *Tracker) Scan() (FileItems, error) {
	t.mu.Lock()
	dir, opts := t.dir, t.opts
	t.mu.Unlock()

	// List outside the lock so a slow disk never stalls MarkSeen callers.
	items, err := List(dir, opts)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dir != dir {
		return nil, nil // directory changed while listing
	}
	fresh := items[:0]
	for _, it := range items {
		if _, ok := t.seen[it.Path]; !ok {
			fresh = append(fresh, it)
		}
	}
	return fresh, nil
}

// MarkSeen records paths so later scans skip them.
func (t *Tracker) MarkSeen(paths ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range paths {
		t.seen[p] = struct{}{}
	}
}

// Seen reports whether path has been marked.
func (t *Tracker) Seen(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.seen[path]
	return ok
}
