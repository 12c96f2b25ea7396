package gallery

import (
	"time"

	"gallerywall/internal/cache"
)

// Tick advances the gallery to now, the time elapsed on the host clock. It applies at most one
// decoded image, starts a requested zoom, flips a random cell when the flip interval has
// passed and advances every cell. Periodic flips are held while a zoom runs. Tick never blocks.
func (g *Gallery) Tick(now time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.now = now

	if g.pendingResize {
		g.applyResize()
	}

	if res, ok := g.results.TryPop(); ok {
		g.apply(res)
	}

	if g.pendingZoom != noZoom {
		if g.pendingZoom < len(g.cells) {
			g.cells[g.pendingZoom].StartZoom(now)
			if g.zoomCell == noZoom {
				g.flips.Pause(true)
			}
			g.zoomCell = g.pendingZoom
			g.log.WithField("cell", g.pendingZoom).Debug("zoom started")
		}
		g.pendingZoom = noZoom
	}

	if len(g.cells) > 0 && g.flips.Due(now) {
		i := g.rng.Intn(len(g.cells))
		if g.cells[i].Flip(now) {
			g.log.WithField("cell", i).Trace("flip")
		}
	}

	timing := g.cfg.Timing()
	for _, c := range g.cells {
		c.Advance(now, timing, g.pickTexture)
	}
	if g.zoomCell != noZoom && !g.cells[g.zoomCell].IsZooming() {
		g.endZoom()
	}
}

func (g *Gallery) pickTexture() (cache.Handle, bool) {
	return g.cache.PickRandom(g.rng)
}
