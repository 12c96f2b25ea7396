package geom

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectBasics(t *testing.T) {
	r := NewRect(10, 20, 110, 70)
	assert.Equal(t, float32(100), r.Width())
	assert.Equal(t, float32(50), r.Height())
	assert.Equal(t, Vec2{X: 60, Y: 45}, r.Center())
	assert.Equal(t, float32(2), r.AspectRatio())
	assert.Equal(t, image.Rect(10, 20, 110, 70), r.Image())
}

func TestOffsetCenterAndScale(t *testing.T) {
	r := NewRect(0, 0, 10, 10).OffsetCenterTo(Vec2{X: 100, Y: 100})
	assert.Equal(t, NewRect(95, 95, 105, 105), r)

	s := r.ScaleCentered(2)
	assert.Equal(t, NewRect(90, 90, 110, 110), s)

	x := r.ScaleCenteredXY(0, 1)
	assert.Equal(t, float32(0), x.Width())
	assert.Equal(t, float32(10), x.Height())
	assert.Equal(t, r.Center(), x.Center())
}

func TestCenteredFit(t *testing.T) {
	screen := NewRect(0, 0, 200, 100)

	tests := []struct {
		name   string
		in     Rect
		expand bool
		want   Rect
	}{
		{"wide texture fits width", NewRect(0, 0, 400, 100), true, NewRect(0, 25, 200, 75)},
		{"tall texture fits height", NewRect(0, 0, 50, 100), true, NewRect(75, 0, 125, 100)},
		{"small texture expanded", NewRect(0, 0, 20, 10), true, NewRect(0, 0, 200, 100)},
		{"small texture only centered", NewRect(0, 0, 20, 10), false, NewRect(90, 45, 110, 55)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.CenteredFit(screen, tc.expand)
			assert.InDelta(t, tc.want.X1, got.X1, 1e-3)
			assert.InDelta(t, tc.want.Y1, got.Y1, 1e-3)
			assert.InDelta(t, tc.want.X2, got.X2, 1e-3)
			assert.InDelta(t, tc.want.Y2, got.Y2, 1e-3)
		})
	}
}

func TestCoverFit(t *testing.T) {
	screen := NewRect(0, 0, 200, 100)
	// A square texture must overscan vertically to cover a 2:1 screen.
	got := NewRect(0, 0, 10, 10).CoverFit(screen)
	assert.InDelta(t, 200, got.Width(), 1e-3)
	assert.InDelta(t, 200, got.Height(), 1e-3)
	assert.Equal(t, screen.Center(), got.Center())
	assert.LessOrEqual(t, got.X1, screen.X1)
	assert.LessOrEqual(t, got.Y1, screen.Y1)
}

func TestLerpAndClamp(t *testing.T) {
	assert.Equal(t, float32(5), Lerp(0, 10, 0.5))
	assert.Equal(t, Vec2{X: 1, Y: 2}, LerpVec(Vec2{}, Vec2{X: 2, Y: 4}, 0.5))
	assert.Equal(t, float32(0), Clamp01(-3))
	assert.Equal(t, float32(1), Clamp01(7))
	assert.Equal(t, float32(0.25), Clamp01(0.25))
}
