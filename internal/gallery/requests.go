package gallery

import (
	"errors"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"gallerywall/internal/cache"
	"gallerywall/internal/loader"
)

// RequestImage queues path for loading. The decoded image goes to cell target, or to a cell
// chosen by the gallery when target is loader.TargetAuto. It never blocks: when the queue is
// full the request is dropped and false is returned.
func (g *Gallery) RequestImage(path string, target int) bool {
	return g.request(loader.Request{Path: path, Target: target})
}

// RequestImageData queues an image already held in memory, such as a fresh capture.
// name identifies it in logs.
func (g *Gallery) RequestImageData(name string, data []byte, target int) bool {
	return g.request(loader.Request{Path: name, Data: data, Target: target})
}

func (g *Gallery) request(req loader.Request) bool {
	if !g.requests.TryPush(req) {
		g.log.WithField("path", req.Path).Debug("request queue full, dropping image")
		return false
	}
	return true
}

// AddImage inserts an already decoded image directly into the cache, bypassing the loader.
func (g *Gallery) AddImage(path string, img image.Image, target int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.apply(loader.Result{Path: path, Target: target, Image: img})
}

// RequestZoom schedules the zoom of cell index for the next Tick. Only one zoom may be
// pending or running at a time.
func (g *Gallery) RequestZoom(index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requestZoom(index)
}

func (g *Gallery) requestZoom(index int) error {
	if index < 0 || index >= len(g.cells) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrCellOutOfRange, index, len(g.cells))
	}
	if g.zoomBusy() {
		return ErrZoomActive
	}
	g.pendingZoom = index
	return nil
}

func (g *Gallery) zoomBusy() bool {
	if g.pendingZoom != noZoom {
		return true
	}
	for _, c := range g.cells {
		if c.IsZooming() {
			return true
		}
	}
	return false
}

// Spotlight shows path in a random cell and zooms that cell, the way a new capture is
// presented. It returns the chosen cell.
func (g *Gallery) Spotlight(path string) (int, error) {
	index, _, err := g.spotlight(path)
	return index, err
}

func (g *Gallery) spotlight(path string) (index int, queued bool, err error) {
	g.mu.Lock()
	if len(g.cells) == 0 {
		g.mu.Unlock()
		return -1, false, ErrCellOutOfRange
	}
	index = g.rng.Intn(len(g.cells))
	err = g.requestZoom(index)
	g.mu.Unlock()
	if err != nil {
		return -1, false, err
	}
	// The zoom holds at its start long enough for the decode to land in the cell.
	queued = g.RequestImage(path, index)
	g.log.WithFields(logrus.Fields{"path": path, "cell": index, "queued": queued}).Debug("spotlight")
	return index, queued, nil
}

// Rescan lists the folder and queues every file that appeared since the last scan. Files that
// do not fit in the request queue are left for the next rescan. With spotlight_new_files the
// newest file is spotlighted instead of being added quietly.
func (g *Gallery) Rescan() error {
	g.scanMu.Lock()
	defer g.scanMu.Unlock()
	items, err := g.tracker.Scan()
	if err != nil {
		g.log.WithError(err).Debug("rescan skipped")
		return err
	}
	if len(items) == 0 {
		return nil
	}
	spotlight := g.Config().SpotlightNewFiles

	rest := items
	if spotlight {
		rest = items[:len(items)-1]
	}
	queued := g.enqueue(rest)
	if spotlight && queued == len(rest) {
		newest := items[len(items)-1].Path
		_, ok, err := g.spotlight(newest)
		switch {
		case errors.Is(err, ErrZoomActive):
			ok = g.RequestImage(newest, loader.TargetAuto)
		case err != nil:
			g.log.WithError(err).Debug("spotlight failed")
		}
		if ok {
			g.tracker.MarkSeen(newest)
			queued++
		}
	}
	g.log.WithFields(logrus.Fields{"found": len(items), "queued": queued}).Debug("rescan")
	return nil
}

// apply inserts a decoded image into the cache and shows it in its target cell. Untargeted
// images go to one cell that has nothing to show, if any. Must be called with g.mu held.
func (g *Gallery) apply(res loader.Result) {
	tex := &cache.Texture{Path: res.Path, Image: res.Image}
	if res.Info != nil {
		tex.EXIFData = res.Info.EXIFData
	}
	h := g.cache.Insert(tex)

	switch {
	case res.Target >= 0 && res.Target < len(g.cells):
		g.cells[res.Target].SetTexture(h)
	case res.Target >= len(g.cells):
		g.log.WithFields(logrus.Fields{"path": res.Path, "cell": res.Target}).Debug("target cell gone, image cached only")
	default:
		if i, ok := g.pickEmptyCell(); ok {
			g.cells[i].SetTexture(h)
		}
	}
}

func (g *Gallery) pickEmptyCell() (int, bool) {
	var empty []int
	for i, c := range g.cells {
		if !g.cache.Contains(c.Texture()) {
			empty = append(empty, i)
		}
	}
	if len(empty) == 0 {
		return 0, false
	}
	return empty[g.rng.Intn(len(empty))], true
}
