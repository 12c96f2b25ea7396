// Package gallery ties the image pipeline together: it feeds file paths to the background
// loader, collects decoded images into the texture cache and drives the grid of animated cells.
//
// A Gallery is driven by its host through Tick and Render, which never wait on disk or
// decoding. All methods are safe to call from any goroutine.
package gallery

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gallerywall/internal/cache"
	"gallerywall/internal/cell"
	"gallerywall/internal/config"
	"gallerywall/internal/decode"
	"gallerywall/internal/loader"
	"gallerywall/internal/queue"
	"gallerywall/internal/scan"
	"gallerywall/internal/schedule"
)

// Option customizes a Gallery.
type Option func(*Gallery)

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(g *Gallery) { g.log = log }
}

// WithRand sets the random source used for appearance jitter, flips and cell selection.
func WithRand(rng *rand.Rand) Option {
	return func(g *Gallery) { g.rng = rng }
}

// WithDecoder replaces the image decoder used by the loader.
func WithDecoder(d loader.ImageDecoder) Option {
	return func(g *Gallery) { g.decoder = d }
}

// Stats is a snapshot of the pipeline counters.
type Stats struct {
	Requests queue.Stats
	Results  queue.Stats
	Loader   loader.Stats
	Cached   int
	Capacity int
	Evicted  uint64
}

const noZoom = -1

// Gallery is the orchestrator of one photo wall.
type Gallery struct {
	id      uuid.UUID
	log     logrus.FieldLogger
	rng     *rand.Rand
	decoder loader.ImageDecoder

	requests *queue.Queue[loader.Request]
	results  *queue.Queue[loader.Result]
	loader   *loader.Loader
	tracker  *scan.Tracker
	flips    *schedule.FlipScheduler

	// scanMu orders folder listings and the requests they produce against folder switches.
	// It is taken before mu.
	scanMu sync.Mutex

	mu            sync.Mutex
	cfg           config.Config
	rows, cols    int // grid the cells were built for; cfg may already hold a pending change
	cache         *cache.Cache
	cells         []*cell.Cell
	pendingZoom   int
	zoomCell      int
	pendingResize bool
	now           time.Duration
	closed        bool
}

// New validates cfg, starts the loader goroutine and returns an empty gallery. Call Configure
// or SetFolder to start loading images.
func New(cfg config.Config, opts ...Option) (*Gallery, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	g := &Gallery{
		id:          uuid.New(),
		cfg:         cfg,
		pendingZoom: noZoom,
		zoomCell:    noZoom,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = logrus.StandardLogger()
	}
	g.log = g.log.WithField("gallery", g.id.String())
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.decoder == nil {
		g.decoder = decode.NewDecoder(cfg.MaxTextureSize)
	}

	g.requests = queue.New[loader.Request](cfg.QueueSize)
	g.results = queue.New[loader.Result](cfg.QueueSize)
	g.tracker = scan.NewTracker(scanOptions(cfg))
	g.flips = schedule.NewFlipScheduler(cfg.FlipFrequency, 0)
	g.cache = cache.New(cfg.CacheCapacity())
	g.rows, g.cols = cfg.Rows, cfg.Columns
	g.rebuildCells()

	g.loader = loader.New(g.requests, g.results, g.decoder, g.log)
	g.loader.Start(context.Background())
	g.log.WithFields(logrus.Fields{"rows": cfg.Rows, "columns": cfg.Columns}).Info("gallery created")
	return g, nil
}

func scanOptions(cfg config.Config) scan.Options {
	return scan.Options{Extensions: cfg.Extensions, Recursive: cfg.Recursive}
}

// ID identifies this gallery in logs.
func (g *Gallery) ID() uuid.UUID { return g.id }

// Close stops the loader, waiting for a decode in progress, then releases the cache and cells.
func (g *Gallery) Close() {
	g.loader.Stop()

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	g.requests.Drain()
	g.results.Drain()
	g.cache.Clear()
	g.cells = nil
	g.log.Info("gallery closed")
}

// Configure sets the folder and grid size, then reloads everything. A folder that cannot be
// listed yet is kept and retried by later rescans.
func (g *Gallery) Configure(folder string, rows, columns int) error {
	g.scanMu.Lock()
	defer g.scanMu.Unlock()
	g.mu.Lock()
	defer g.mu.Unlock()

	cfg := g.cfg
	cfg.Folder, cfg.Rows, cfg.Columns = folder, rows, columns
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	g.cfg = cfg
	g.rows, g.cols = rows, columns
	g.pendingResize = false
	g.cache.Resize(cfg.CacheCapacity())

	if err := g.loadFolder(folder); err != nil {
		g.log.WithError(err).WithField("path", folder).Warn("folder not available, will retry")
	}
	return nil
}

// SetFolder switches to another folder and reloads the cache and every cell. The previous
// folder is kept when the new one cannot be listed.
func (g *Gallery) SetFolder(folder string) error {
	g.scanMu.Lock()
	defer g.scanMu.Unlock()
	if _, err := scan.List(folder, g.scanOpts()); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cfg.Folder = folder
	return g.loadFolder(folder)
}

func (g *Gallery) scanOpts() scan.Options {
	g.mu.Lock()
	defer g.mu.Unlock()
	return scanOptions(g.cfg)
}

// loadFolder drops everything loaded so far, queues the newest files that fit in the cache and
// rebuilds the cells. Older files are marked seen without being loaded.
func (g *Gallery) loadFolder(folder string) error {
	g.requests.Drain()
	g.results.Drain()
	g.cache.Clear()
	g.tracker.SetOptions(scanOptions(g.cfg))
	g.tracker.SetDir(folder)
	g.pendingZoom = noZoom
	defer g.rebuildCells()

	items, err := g.tracker.Scan()
	if err != nil {
		return err
	}
	keep := min(len(items), g.cache.Cap())
	skipped := items[:len(items)-keep]
	g.tracker.MarkSeen(skipped.Paths()...)
	queued := g.enqueue(items[len(items)-keep:])
	g.log.WithFields(logrus.Fields{
		"path":    folder,
		"found":   len(items),
		"skipped": len(skipped),
		"queued":  queued,
	}).Info("folder loaded")
	return nil
}

// enqueue requests each file until the queue fills up and marks the requested ones seen.
// Files that did not fit stay unseen so the next rescan picks them up.
func (g *Gallery) enqueue(items scan.FileItems) int {
	n := 0
	for _, it := range items {
		if !g.RequestImage(it.Path, loader.TargetAuto) {
			break
		}
		g.tracker.MarkSeen(it.Path)
		n++
	}
	return n
}

// Resize changes the grid. Cells are recreated and the cache capacity follows the new size.
// Resizing to the current size keeps the cells and cancels a grid change still pending from SetConfig.
func (g *Gallery) Resize(rows, columns int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if rows == g.rows && columns == g.cols {
		g.cfg.Rows, g.cfg.Columns = rows, columns
		g.pendingResize = false
		return nil
	}
	cfg := g.cfg
	cfg.Rows, cfg.Columns = rows, columns
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	g.cfg = cfg
	g.applyResize()
	return nil
}

func (g *Gallery) applyResize() {
	g.rows, g.cols = g.cfg.Rows, g.cfg.Columns
	g.pendingResize = false
	g.cache.Resize(g.cfg.CacheCapacity())
	g.rebuildCells()
	g.log.WithFields(logrus.Fields{"rows": g.rows, "columns": g.cols}).Debug("grid resized")
}

// rebuildCells replaces every cell with a fresh hidden one showing a random cached texture.
func (g *Gallery) rebuildCells() {
	timing := g.cfg.Timing()
	g.cells = make([]*cell.Cell, g.rows*g.cols)
	for i := range g.cells {
		h, _ := g.cache.PickRandom(g.rng)
		g.cells[i] = cell.New(g.now, timing, g.rng, h)
	}
	g.pendingZoom = noZoom
	g.endZoom()
	g.flips.Restart(g.now)
}

// endZoom gives periodic flips back after a zoom, unless they were paused before it started.
func (g *Gallery) endZoom() {
	if g.zoomCell == noZoom {
		return
	}
	g.zoomCell = noZoom
	g.flips.ResumeAfterOperation()
}

// SetConfig replaces the runtime parameters. Grid size changes are applied on the next Tick,
// a folder change reloads immediately. The queue size and texture size limit are fixed at creation.
func (g *Gallery) SetConfig(cfg config.Config) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	g.mu.Lock()
	prev := g.cfg
	g.cfg = cfg
	g.cfg.QueueSize = prev.QueueSize
	g.cfg.MaxTextureSize = prev.MaxTextureSize
	g.pendingResize = cfg.Rows != g.rows || cfg.Columns != g.cols
	g.flips.SetInterval(cfg.FlipFrequency)
	g.tracker.SetOptions(scanOptions(cfg))
	g.cfg.Folder = prev.Folder
	g.mu.Unlock()

	if cfg.Folder != prev.Folder && cfg.Folder != "" {
		return g.SetFolder(cfg.Folder)
	}
	return nil
}

// Config returns a copy of the current parameters.
func (g *Gallery) Config() config.Config {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cfg
}

// GridSize returns the rows and columns of the current cells.
func (g *Gallery) GridSize() (rows, columns int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rows, g.cols
}

// Len is the number of cells.
func (g *Gallery) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.cells)
}

// Reset replays the appearance of every cell that is not zooming and restarts the flip clock.
func (g *Gallery) Reset(now time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	timing := g.cfg.Timing()
	for _, c := range g.cells {
		c.Reset(now, timing, g.rng)
	}
	g.flips.Restart(now)
}

// PauseFlips stops periodic flips until ResumeFlips is called.
func (g *Gallery) PauseFlips() { g.flips.Pause(false) }

// ResumeFlips restarts periodic flips.
func (g *Gallery) ResumeFlips() { g.flips.Resume() }

// ToggleFlips pauses or resumes periodic flips and reports whether they are now paused.
// The choice also stands after a zoom in progress ends.
func (g *Gallery) ToggleFlips() bool {
	g.flips.TogglePlayPause()
	return g.flips.IsPaused()
}

// Stats returns the current pipeline counters.
func (g *Gallery) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Stats{
		Requests: g.requests.Stats(),
		Results:  g.results.Stats(),
		Loader:   g.loader.Stats(),
		Cached:   g.cache.Len(),
		Capacity: g.cache.Cap(),
		Evicted:  g.cache.Evicted(),
	}
}
