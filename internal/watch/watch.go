// Package watch triggers gallery rescans when the watched directory changes.
//
// Filesystem notifications are used when available; a periodic poll runs regardless,
// so missed events, network mounts and directories that appear later are still picked up.
package watch

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// settle delays the rescan after the last event so files still being written are not
// picked up half way.
const settle = 150 * time.Millisecond

// Watcher calls a trigger function whenever the directory may have new files.
type Watcher struct {
	interval time.Duration
	trigger  func()
	log      logrus.FieldLogger

	mu      sync.Mutex
	dir     string
	changed chan struct{}
}

// New creates a watcher for dir that polls every interval.
func New(dir string, interval time.Duration, trigger func(), log logrus.FieldLogger) *Watcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{
		interval: interval,
		trigger:  trigger,
		log:      log,
		dir:      dir,
		changed:  make(chan struct{}, 1),
	}
}

// SetDir switches the watched directory. Safe to call while Run is active.
func (w *Watcher) SetDir(dir string) {
	w.mu.Lock()
	w.dir = dir
	w.mu.Unlock()
	select {
	case w.changed <- struct{}{}:
	default:
	}
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

// Run watches until ctx is done and then returns nil.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.log.WithError(err).Warn("filesystem notifications unavailable, polling only")
		fsw = nil
	} else {
		defer fsw.Close()
	}

	var (
		events  <-chan fsnotify.Event
		errs    <-chan error
		watched string
	)
	if fsw != nil {
		events, errs = fsw.Events, fsw.Errors
	}
	// follow keeps the notification watch on the current directory. Failures are retried on the next poll.
	follow := func() {
		if fsw == nil {
			return
		}
		dir := w.Dir()
		if dir == watched {
			return
		}
		if watched != "" {
			_ = fsw.Remove(watched)
			watched = ""
		}
		if dir == "" {
			return
		}
		if err := fsw.Add(dir); err != nil {
			w.log.WithError(err).WithField("path", dir).Debug("cannot watch directory yet")
			return
		}
		watched = dir
	}
	follow()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	debounce := time.NewTimer(settle)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.changed:
			follow()
			w.trigger()
		case <-ticker.C:
			follow()
			w.trigger()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Rename) {
				debounce.Reset(settle)
			}
		case <-debounce.C:
			w.trigger()
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.log.WithError(err).Debug("watch error")
		}
	}
}
