package ui

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/chewxy/math32"
	xdraw "golang.org/x/image/draw"

	"gallerywall/internal/cell"
	"gallerywall/internal/gallery"
)

const (
	backgroundLevel  = 28
	tvLineShade      = 0.6
	vignetteStrength = 0.75
	noiseAmplitude   = 12
)

// Painter rasterizes gallery frames in software.
type Painter struct {
	scaler xdraw.Scaler

	// vignette factors for the last viewport size, row-major
	vignette     []float32
	vignetteSize image.Point
}

// NewPainter returns a painter using bilinear texture scaling.
func NewPainter() *Painter {
	return &Painter{scaler: xdraw.ApproxBiLinear}
}

// Paint draws the background effect and then every cell of f, in order, into dst.
func (p *Painter) Paint(dst *image.RGBA, f gallery.Frame) {
	p.background(dst, f.Background)
	placeholder := image.NewUniform(gallery.PlaceholderColor)
	for _, d := range f.Draws {
		if d.State == cell.Hidden {
			continue
		}
		r := d.Quad.Image().Intersect(dst.Bounds())
		if r.Empty() {
			continue
		}
		if d.Texture == nil || d.Texture.Image == nil {
			draw.Draw(dst, r, placeholder, image.Point{}, draw.Src)
			continue
		}
		p.scaler.Scale(dst, d.Quad.Image(), d.Texture.Image, d.Texture.Image.Bounds(), xdraw.Over, nil)
	}
}

func (p *Painter) background(dst *image.RGBA, e gallery.Effect) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if e.Vignetting {
		p.prepareVignette(w, h)
	}
	frame := uint32(0)
	if e.NoiseFrequency > 0 {
		frame = uint32(float32(e.Time.Seconds()) * e.NoiseFrequency)
	}

	for y := 0; y < h; y++ {
		shade := float32(1)
		if e.TvLines && y%2 == 1 {
			shade = tvLineShade
		}
		for x := 0; x < w; x++ {
			v := float32(backgroundLevel)
			if e.NoiseFrequency > 0 {
				v += float32(int(hash(uint32(x), uint32(y), frame)%(2*noiseAmplitude+1)) - noiseAmplitude)
			}
			v *= shade
			if e.Vignetting {
				v *= p.vignette[y*w+x]
			}
			g := uint8(math32.Max(0, math32.Min(255, v)))
			dst.SetRGBA(b.Min.X+x, b.Min.Y+y, color.RGBA{R: g, G: g, B: g, A: 0xff})
		}
	}
}

func (p *Painter) prepareVignette(w, h int) {
	size := image.Pt(w, h)
	if size == p.vignetteSize && len(p.vignette) == w*h {
		return
	}
	p.vignette = make([]float32, w*h)
	p.vignetteSize = size
	cx, cy := float32(w)/2, float32(h)/2
	maxD := math32.Sqrt(cx*cx + cy*cy)
	if maxD == 0 {
		return
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float32(x)+.5-cx, float32(y)+.5-cy
			d := math32.Sqrt(dx*dx+dy*dy) / maxD
			p.vignette[y*w+x] = 1 - vignetteStrength*d*d
		}
	}
}

// hash is a small integer hash giving stable per-pixel noise for a frame.
func hash(x, y, frame uint32) uint32 {
	v := x*374761393 + y*668265263 + frame*2246822519
	v = (v ^ (v >> 13)) * 1274126177
	return v ^ (v >> 16)
}
