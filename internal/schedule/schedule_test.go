package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDueOncePerInterval(t *testing.T) {
	fs := NewFlipScheduler(3*time.Second, 0)
	assert.False(t, fs.Due(time.Second))
	assert.True(t, fs.Due(3*time.Second))
	assert.False(t, fs.Due(3*time.Second), "interval restarts after firing")
	assert.False(t, fs.Due(5*time.Second))
	assert.True(t, fs.Due(6500*time.Millisecond))
}

func TestDefaultInterval(t *testing.T) {
	assert.Equal(t, defaultFlipInterval, NewFlipScheduler(0, 0).Interval())
	fs := NewFlipScheduler(time.Second, 0)
	fs.SetInterval(-1)
	assert.Equal(t, time.Second, fs.Interval())
}

func TestPauseBlocksFlips(t *testing.T) {
	fs := NewFlipScheduler(time.Second, 0)
	fs.TogglePlayPause()
	assert.True(t, fs.IsPaused())
	assert.False(t, fs.Due(time.Minute))

	fs.Resume()
	assert.True(t, fs.Due(time.Minute))
}

func TestPauseForOperation(t *testing.T) {
	fs := NewFlipScheduler(time.Second, 0)

	fs.Pause(true)
	assert.True(t, fs.IsPaused())
	fs.ResumeAfterOperation()
	assert.False(t, fs.IsPaused(), "was playing before the operation")

	fs.TogglePlayPause()
	fs.Pause(true)
	fs.ResumeAfterOperation()
	assert.True(t, fs.IsPaused(), "was already paused before the operation")
}

func TestRestart(t *testing.T) {
	fs := NewFlipScheduler(time.Second, 0)
	fs.Restart(10 * time.Second)
	assert.False(t, fs.Due(10500*time.Millisecond))
	assert.True(t, fs.Due(11*time.Second))
}
