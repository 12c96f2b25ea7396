// Package geom holds the small float32 rectangle math used to lay out and animate grid cells.
package geom

import (
	"image"

	"github.com/chewxy/math32"
)

// Vec2 is a point or size in viewport space.
type Vec2 struct {
	X, Y float32
}

// Rect is an axis-aligned rectangle given by its top-left (X1, Y1) and bottom-right (X2, Y2) corners.
type Rect struct {
	X1, Y1, X2, Y2 float32
}

// NewRect creates a rectangle from two corners.
func NewRect(x1, y1, x2, y2 float32) Rect {
	return Rect{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// RectFromSize creates a rectangle at origin p with size s.
func RectFromSize(p, s Vec2) Rect {
	return Rect{X1: p.X, Y1: p.Y, X2: p.X + s.X, Y2: p.Y + s.Y}
}

// FromImage converts integer image bounds to a Rect.
func FromImage(r image.Rectangle) Rect {
	return Rect{X1: float32(r.Min.X), Y1: float32(r.Min.Y), X2: float32(r.Max.X), Y2: float32(r.Max.Y)}
}

// Image rounds the rectangle to integer pixel bounds.
func (r Rect) Image() image.Rectangle {
	round := func(v float32) int { return int(math32.Floor(v + 0.5)) }
	return image.Rect(round(r.X1), round(r.Y1), round(r.X2), round(r.Y2))
}

func (r Rect) Width() float32  { return r.X2 - r.X1 }
func (r Rect) Height() float32 { return r.Y2 - r.Y1 }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{X: (r.X1 + r.X2) / 2, Y: (r.Y1 + r.Y2) / 2}
}

// AspectRatio is width over height. A degenerate rectangle reports 1.
func (r Rect) AspectRatio() float32 {
	h := r.Height()
	if h == 0 {
		return 1
	}
	return r.Width() / h
}

// Offset moves the rectangle by d.
func (r Rect) Offset(d Vec2) Rect {
	return Rect{X1: r.X1 + d.X, Y1: r.Y1 + d.Y, X2: r.X2 + d.X, Y2: r.Y2 + d.Y}
}

// OffsetCenterTo moves the rectangle so that its center lands on c.
func (r Rect) OffsetCenterTo(c Vec2) Rect {
	cur := r.Center()
	return r.Offset(Vec2{X: c.X - cur.X, Y: c.Y - cur.Y})
}

// ScaleCentered scales both axes by s around the center.
func (r Rect) ScaleCentered(s float32) Rect {
	return r.ScaleCenteredXY(s, s)
}

// ScaleCenteredXY scales each axis independently around the center.
func (r Rect) ScaleCenteredXY(sx, sy float32) Rect {
	c := r.Center()
	hw := r.Width() / 2 * sx
	hh := r.Height() / 2 * sy
	return Rect{X1: c.X - hw, Y1: c.Y - hh, X2: c.X + hw, Y2: c.Y + hh}
}

// CenteredFit centers r inside other and scales it, keeping its aspect ratio, so that it
// fits other exactly along the constraining axis. Without expand a rectangle that already
// fits inside other is only centered, not enlarged.
func (r Rect) CenteredFit(other Rect, expand bool) Rect {
	result := r.OffsetCenterTo(other.Center())
	inside := result.Width() < other.Width() && result.Height() < other.Height()
	if !expand && inside {
		return result
	}
	if result.Width() == 0 || result.Height() == 0 {
		return result
	}
	if result.AspectRatio()/other.AspectRatio() >= 1 {
		return result.ScaleCentered(other.Width() / result.Width())
	}
	return result.ScaleCentered(other.Height() / result.Height())
}

// CoverFit returns r centered on other and scaled so that it covers other completely,
// overscanning along one axis when the aspect ratios differ.
func (r Rect) CoverFit(other Rect) Rect {
	fit := r.CenteredFit(other, true)
	if fit.Width() == 0 || fit.Height() == 0 {
		return other
	}
	if other.AspectRatio() > fit.AspectRatio() {
		return fit.ScaleCentered(other.Width() / fit.Width())
	}
	return fit.ScaleCentered(other.Height() / fit.Height())
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// LerpVec interpolates linearly between two points.
func LerpVec(a, b Vec2, t float32) Vec2 {
	return Vec2{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}

// Clamp01 limits t to [0, 1].
func Clamp01(t float32) float32 {
	return math32.Max(0, math32.Min(1, t))
}
