package gallery

import (
	"image/color"
	"time"

	"gallerywall/internal/cache"
	"gallerywall/internal/cell"
	"gallerywall/internal/geom"
)

// PlaceholderColor fills cells that have no texture to show.
var PlaceholderColor color.Color = color.Black

// placeholderRect stands in for the texture bounds of an empty cell.
var placeholderRect = geom.NewRect(0, 0, 1024, 768)

// Effect parametrizes the full-viewport background drawn behind the cells.
type Effect struct {
	Time           time.Duration
	TvLines        bool
	Vignetting     bool
	NoiseFrequency float32
}

// Draw describes one cell to paint.
type Draw struct {
	Index int
	// Rect is the cell's destination rectangle: its grid slot, or the interpolated zoom rectangle.
	Rect geom.Rect
	// Quad is where the image goes: fitted into Rect and scaled horizontally by FlipScale.
	Quad geom.Rect
	// Texture is nil when the cell shows the placeholder.
	Texture      *cache.Texture
	FlipScale    float32
	State        cell.State
	ZoomProgress float32
	OnTop        bool
}

// Frame is everything a renderer needs for one picture. Draws are in paint order.
type Frame struct {
	Viewport   geom.Rect
	Background Effect
	Draws      []Draw
}

// Layout returns the grid slot of every cell in row-major order.
func Layout(viewport geom.Rect, rows, columns int, hMargin, vMargin, hSpacing, vSpacing float32) []geom.Rect {
	if rows <= 0 || columns <= 0 {
		return nil
	}
	w, h := viewport.Width(), viewport.Height()
	hm, vm := w*hMargin, h*vMargin
	hs, vs := w*hSpacing, h*vSpacing
	size := geom.Vec2{
		X: (w - hm*2 - hs*float32(columns-1)) / float32(columns),
		Y: (h - vm*2 - vs*float32(rows-1)) / float32(rows),
	}
	stepX, stepY := hs+size.X, vs+size.Y

	slots := make([]geom.Rect, 0, rows*columns)
	for y := 0; y < rows; y++ {
		for x := 0; x < columns; x++ {
			p := geom.Vec2{X: viewport.X1 + hm + float32(x)*stepX, Y: viewport.Y1 + vm + float32(y)*stepY}
			slots = append(slots, geom.RectFromSize(p, size))
		}
	}
	return slots
}

// ZoomRect interpolates between a cell's slot (t = 0) and the rectangle that covers the
// viewport with the texture's aspect ratio (t = 1). The slot keeps its own aspect ratio.
func ZoomRect(slot, viewport, texture geom.Rect, t float32) geom.Rect {
	cover := texture.CoverFit(viewport)
	if slot.Width() == 0 {
		return cover
	}
	center := geom.LerpVec(slot.Center(), cover.Center(), t)
	scale := geom.Lerp(slot.Width(), cover.Width(), t) / slot.Width()
	return slot.OffsetCenterTo(center).ScaleCentered(scale)
}

// Render computes the frame for viewport. Cells are listed in row-major order except the
// zooming cell, which comes last so it is painted on top.
func (g *Gallery) Render(viewport geom.Rect) Frame {
	g.mu.Lock()
	defer g.mu.Unlock()

	cfg := g.cfg
	frame := Frame{
		Viewport: viewport,
		Background: Effect{
			Time:           g.now,
			TvLines:        cfg.TvLines,
			Vignetting:     cfg.Vignetting,
			NoiseFrequency: cfg.NoiseFrequency,
		},
		Draws: make([]Draw, 0, len(g.cells)),
	}

	slots := Layout(viewport, g.rows, g.cols, cfg.HorizontalMargin, cfg.VerticalMargin, cfg.HorizontalSpacing, cfg.VerticalSpacing)
	zoomed := -1
	for i, c := range g.cells {
		if i >= len(slots) {
			break
		}
		if c.IsZooming() {
			zoomed = i
			continue
		}
		frame.Draws = append(frame.Draws, g.draw(i, c, slots[i]))
	}

	if zoomed >= 0 {
		c := g.cells[zoomed]
		d := g.draw(zoomed, c, slots[zoomed])
		t := c.ZoomProgress()
		if cfg.ZoomFlyIn {
			t = 1 - t
		}
		d.Rect = ZoomRect(slots[zoomed], viewport, textureRect(d.Texture), t)
		d.Quad = fitQuad(d.Texture, d.Rect, d.FlipScale)
		d.OnTop = true
		frame.Draws = append(frame.Draws, d)
	}
	return frame
}

func (g *Gallery) draw(i int, c *cell.Cell, slot geom.Rect) Draw {
	tex, _ := g.cache.Get(c.Texture())
	return Draw{
		Index:        i,
		Rect:         slot,
		Quad:         fitQuad(tex, slot, c.FlipScale()),
		Texture:      tex,
		FlipScale:    c.FlipScale(),
		State:        c.State(),
		ZoomProgress: c.ZoomProgress(),
	}
}

func textureRect(tex *cache.Texture) geom.Rect {
	b := tex.Bounds()
	if b.Empty() {
		return placeholderRect
	}
	return geom.FromImage(b)
}

func fitQuad(tex *cache.Texture, rect geom.Rect, flipScale float32) geom.Rect {
	return textureRect(tex).CenteredFit(rect, true).ScaleCenteredXY(flipScale, 1)
}
