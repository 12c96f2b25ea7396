// Package schedule decides when the gallery flips its next cell.
package schedule

import (
	"sync"
	"time"
)

const (
	defaultFlipInterval = 3 * time.Second
)

// FlipScheduler fires once per interval on the gallery clock and can be paused.
// Pause and resume may be called from any goroutine.
type FlipScheduler struct {
	mu                 sync.Mutex
	isPaused           bool
	wasPlayingBeforeOp bool // Tracks if flipping was active before a temporary pause
	interval           time.Duration
	last               time.Duration
}

// NewFlipScheduler creates a running scheduler whose clock starts at now.
func NewFlipScheduler(interval, now time.Duration) *FlipScheduler {
	if interval <= 0 {
		interval = defaultFlipInterval
	}
	return &FlipScheduler{interval: interval, last: now}
}

// Due reports whether a flip should happen at now and, if so, restarts the interval.
func (fs *FlipScheduler) Due(now time.Duration) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.isPaused {
		return false
	}
	if now-fs.last < fs.interval {
		return false
	}
	fs.last = now
	return true
}

// Restart begins a new interval at now.
func (fs *FlipScheduler) Restart(now time.Duration) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.last = now
}

// SetInterval changes the time between flips.
func (fs *FlipScheduler) SetInterval(interval time.Duration) {
	if interval <= 0 {
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.interval = interval
}

// Interval returns the configured flip interval.
func (fs *FlipScheduler) Interval() time.Duration {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.interval
}

// TogglePlayPause toggles the paused state.
func (fs *FlipScheduler) TogglePlayPause() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.isPaused = !fs.isPaused
	fs.wasPlayingBeforeOp = false // User toggle overrides any operation-specific state
}

// Pause stops flips. If forOperation is true, it remembers whether flipping was active.
func (fs *FlipScheduler) Pause(forOperation bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if forOperation {
		fs.wasPlayingBeforeOp = !fs.isPaused
	}
	fs.isPaused = true
}

// Resume unconditionally restarts flipping.
func (fs *FlipScheduler) Resume() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.isPaused = false
	fs.wasPlayingBeforeOp = false
}

// ResumeAfterOperation resumes only if flipping was active before Pause(true) was called.
func (fs *FlipScheduler) ResumeAfterOperation() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.wasPlayingBeforeOp {
		fs.isPaused = false
	}
	fs.wasPlayingBeforeOp = false
}

// IsPaused returns true if flipping is currently paused.
func (fs *FlipScheduler) IsPaused() bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.isPaused
}
