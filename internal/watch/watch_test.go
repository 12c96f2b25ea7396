package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, dir string, interval time.Duration) (*Watcher, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	w := New(dir, interval, func() { hits.Add(1) }, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("Run did not return after cancel")
		}
	})
	return w, &hits
}

func TestPollingTriggers(t *testing.T) {
	_, hits := startWatcher(t, t.TempDir(), 20*time.Millisecond)
	assert.Eventually(t, func() bool { return hits.Load() >= 3 }, 5*time.Second, 10*time.Millisecond)
}

func TestNewFileTriggersBeforePoll(t *testing.T) {
	dir := t.TempDir()
	_, hits := startWatcher(t, dir, time.Hour)

	// Give the watcher a moment to register the directory.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.png"), []byte("x"), 0o644))
	assert.Eventually(t, func() bool { return hits.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestSetDirTriggersImmediately(t *testing.T) {
	w, hits := startWatcher(t, filepath.Join(t.TempDir(), "missing"), time.Hour)
	other := t.TempDir()
	w.SetDir(other)
	assert.Equal(t, other, w.Dir())
	assert.Eventually(t, func() bool { return hits.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
}
