// Package cell implements the per-position animation state machine of the gallery grid.
//
// A cell starts hidden, appears with an opening flip after a randomized delay, then idles
// until it is asked to flip (swapping its texture halfway through) or to zoom. Cells are
// advanced once per tick by their owner and are not safe for concurrent use.
package cell

import (
	"fmt"
	"math/rand"
	"time"

	"gallerywall/internal/cache"
)

// State is the visual state of a cell.
type State int

const (
	Hidden    State = iota // waiting for its appearance time, drawn fully collapsed
	Appearing              // opening flip
	Idle
	Flipping
	ZoomIdle // zoom requested, holding at progress 0
	Zooming  // zoom easing from 0 to 1
)

var stateNames = [...]string{"Hidden", "Appearing", "Idle", "Flipping", "ZoomIdle", "Zooming"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Timing holds the animation durations shared by every cell of a gallery.
type Timing struct {
	FlipDuration     time.Duration
	ZoomIdle         time.Duration
	ZoomDuration     time.Duration
	AppearanceDelay  time.Duration
	AppearanceJitter time.Duration // the appearance delay is extended by a uniform [0, jitter) offset
}

// DefaultTiming mirrors the default gallery configuration.
func DefaultTiming() Timing {
	return Timing{
		FlipDuration:     2500 * time.Millisecond,
		ZoomIdle:         2 * time.Second,
		ZoomDuration:     1500 * time.Millisecond,
		AppearanceDelay:  time.Second,
		AppearanceJitter: 2 * time.Second,
	}
}

// PickFunc chooses a replacement texture during a flip. It returns false when nothing is available.
type PickFunc func() (cache.Handle, bool)

// Cell is one grid position.
type Cell struct {
	texture cache.Handle
	state   State

	appearanceTime time.Duration
	neverHide      bool // set by a zoom; the appearance is never replayed until Reset

	flipStart   time.Duration
	flipSwapped bool

	zoomStart    time.Duration
	zoomProgress float32

	scale float32 // horizontal flip scale, 0 = collapsed, 1 = full width
}

// New creates a hidden cell showing tex once it appears.
func New(now time.Duration, timing Timing, rng *rand.Rand, tex cache.Handle) *Cell {
	c := &Cell{texture: tex}
	c.Reset(now, timing, rng)
	return c
}

// Reset schedules a fresh appearance. A zooming cell ignores the reset.
func (c *Cell) Reset(now time.Duration, timing Timing, rng *rand.Rand) {
	if c.IsZooming() {
		return
	}
	jitter := time.Duration(0)
	if timing.AppearanceJitter > 0 {
		jitter = time.Duration(rng.Int63n(int64(timing.AppearanceJitter)))
	}
	c.appearanceTime = now + timing.AppearanceDelay + jitter
	c.neverHide = false
	c.state = Hidden
	c.scale = 0
	c.flipSwapped = false
}

// Flip starts a flip when the cell is idle. Requests on a busy cell are ignored and report false.
func (c *Cell) Flip(now time.Duration) bool {
	if c.state != Idle {
		return false
	}
	c.state = Flipping
	c.flipStart = now
	c.flipSwapped = false
	return true
}

// StartZoom begins the zoom timeline, cancelling any flip in progress.
func (c *Cell) StartZoom(now time.Duration) {
	c.state = ZoomIdle
	c.zoomStart = now
	c.zoomProgress = 0
	c.flipSwapped = false
	c.neverHide = true
	c.scale = 1
}

// Advance moves the state machine to now. pick supplies the texture swapped in halfway through a flip.
func (c *Cell) Advance(now time.Duration, timing Timing, pick PickFunc) {
	switch {
	case c.IsZooming():
		c.advanceZoom(now, timing)
	case !c.neverHide && now < c.appearanceTime:
		c.state = Hidden
		c.scale = 0
	case !c.neverHide && now < c.appearanceTime+timing.FlipDuration/2:
		c.state = Appearing
		c.scale = EaseOutQuart(progress(now-c.appearanceTime, timing.FlipDuration/2))
	case c.state == Flipping:
		c.advanceFlip(now, timing, pick)
	default:
		c.state = Idle
		c.scale = 1
	}
}

func (c *Cell) advanceFlip(now time.Duration, timing Timing, pick PickFunc) {
	u := EaseInOutQuart(progress(now-c.flipStart, timing.FlipDuration))
	if u >= 0.5 && !c.flipSwapped {
		if pick != nil {
			if h, ok := pick(); ok {
				c.texture = h
			}
		}
		c.flipSwapped = true
	}
	c.scale = abs32(u*2 - 1)
	if u >= 1 {
		c.state = Idle
		c.scale = 1
	}
}

func (c *Cell) advanceZoom(now time.Duration, timing Timing) {
	elapsed := now - c.zoomStart
	if elapsed < timing.ZoomIdle {
		c.state = ZoomIdle
		c.zoomProgress = 0
		return
	}
	u := progress(elapsed-timing.ZoomIdle, timing.ZoomDuration)
	c.state = Zooming
	c.zoomProgress = EaseOutCirc(u)
	// Latch on the clamped timeline rather than comparing the eased value to 1.
	if u >= 1 {
		c.zoomProgress = 1
		c.state = Idle
	}
	c.scale = 1
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// SetTexture replaces the displayed texture immediately.
func (c *Cell) SetTexture(h cache.Handle) { c.texture = h }

func (c *Cell) Texture() cache.Handle { return c.texture }
func (c *Cell) State() State          { return c.state }

// FlipScale is the horizontal scale to apply before drawing.
func (c *Cell) FlipScale() float32 { return c.scale }

// ZoomProgress is 0 at the grid rectangle and 1 when covering the viewport.
func (c *Cell) ZoomProgress() float32 { return c.zoomProgress }

// IsZooming reports whether the cell is holding or running a zoom.
func (c *Cell) IsZooming() bool { return c.state == ZoomIdle || c.state == Zooming }

// IsFlipping reports whether a flip is in progress.
func (c *Cell) IsFlipping() bool { return c.state == Flipping }

// AppearanceTime is the moment the opening flip starts.
func (c *Cell) AppearanceTime() time.Duration { return c.appearanceTime }
