// Package ui  Fyne host for the gallery wall
package ui

import (
	"context"
	"errors"
	"image"
	"math/rand"
	"runtime"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"gallerywall/internal/config"
	"gallerywall/internal/gallery"
	"gallerywall/internal/geom"
	"gallerywall/internal/settings"
	"gallerywall/internal/watch"
)

const (
	appID       = "io.github.gallerywall"
	framePeriod = time.Second / 60
	// overlayLines is how many recent log messages the overlay shows.
	overlayLines = 8
)

// Options configures Run.
type Options struct {
	Config     config.Config
	Store      *settings.Store // optional, receives the final parameters on exit
	Logger     logrus.FieldLogger
	FullScreen bool
}

// App represents the running wall: one window, one gallery and the goroutines feeding it.
type App struct {
	app fyne.App
	UI  UI

	gallery      *gallery.Gallery
	watcher      *watch.Watcher
	painter      *Painter
	store        *settings.Store
	log          logrus.FieldLogger
	logUIManager *LogUIManager
	rng          *rand.Rand
	start        time.Time
}

// UI holds the window objects.
type UI struct {
	MainWin    fyne.Window
	raster     *canvas.Raster
	logLabel   *widget.Label
	logOverlay *fyne.Container
	mainModKey fyne.KeyModifier
}

// Run opens the gallery window and blocks until it is closed or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	cfg := opts.Config

	g, err := gallery.New(cfg, gallery.WithLogger(log))
	if err != nil {
		return err
	}
	defer g.Close()
	if err := g.Configure(cfg.Folder, cfg.Rows, cfg.Columns); err != nil {
		return err
	}

	a := &App{
		app:          app.NewWithID(appID),
		gallery:      g,
		painter:      NewPainter(),
		store:        opts.Store,
		log:          log,
		logUIManager: NewLogUIManager(DefaultMaxLogMessages),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		start:        time.Now(),
	}
	a.app.Settings().SetTheme(NewWallTheme(a.app.Settings().Theme()))
	a.watcher = watch.New(cfg.Folder, cfg.CheckInterval, a.rescan, log)
	a.buildWindow(opts.FullScreen)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error { return a.watcher.Run(gctx) })
	grp.Go(func() error { return a.animate(gctx) })

	stopped := make(chan struct{})
	go func() {
		select {
		case <-gctx.Done():
			select {
			case <-stopped:
			default:
				fyne.Do(a.app.Quit)
			}
		case <-stopped:
		}
	}()

	a.UI.MainWin.ShowAndRun()
	close(stopped)
	a.logUIManager.OnChange(nil)
	cancel()

	err = grp.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	a.saveSettings()
	return err
}

func (a *App) buildWindow(fullScreen bool) {
	// set main mod key to super on darwin hosts, else set it to ctrl
	if runtime.GOOS == "darwin" {
		a.UI.mainModKey = fyne.KeyModifierSuper
	} else {
		a.UI.mainModKey = fyne.KeyModifierControl
	}
	a.UI.MainWin = a.app.NewWindow("Gallery Wall")
	a.UI.raster = canvas.NewRaster(a.drawFrame)
	a.UI.logLabel = widget.NewLabel("")
	a.UI.logLabel.Wrapping = fyne.TextWrapWord
	a.UI.logOverlay = container.NewVBox(layout.NewSpacer(), a.UI.logLabel)
	a.UI.logOverlay.Hide()
	if a.logUIManager.attach(a.log) {
		a.logUIManager.OnChange(func() { fyne.Do(a.updateLogOverlay) })
	}
	a.UI.MainWin.SetContent(container.NewStack(a.UI.raster, a.UI.logOverlay))
	a.UI.MainWin.SetPadded(false)
	a.UI.MainWin.Resize(fyne.NewSize(1280, 720))
	a.buildKeyboardShortcuts()
	a.UI.MainWin.CenterOnScreen()
	a.UI.MainWin.SetFullScreen(fullScreen)
}

// drawFrame is the raster generator; it runs on the fyne render thread.
func (a *App) drawFrame(w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	frame := a.gallery.Render(geom.NewRect(0, 0, float32(w), float32(h)))
	a.painter.Paint(dst, frame)
	return dst
}

func (a *App) updateLogOverlay() {
	a.UI.logLabel.SetText(a.logUIManager.Tail(overlayLines))
}

func (a *App) toggleLogOverlay() {
	if a.UI.logOverlay.Visible() {
		a.UI.logOverlay.Hide()
		return
	}
	a.updateLogOverlay()
	a.UI.logOverlay.Show()
}

func (a *App) now() time.Duration { return time.Since(a.start) }

// animate ticks the gallery and schedules a repaint once per frame.
func (a *App) animate(ctx context.Context) error {
	ticker := time.NewTicker(framePeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			a.gallery.Tick(a.now())
			fyne.Do(a.UI.raster.Refresh)
		}
	}
}

func (a *App) rescan() {
	if err := a.gallery.Rescan(); err != nil {
		a.log.WithError(err).Debug("rescan failed")
	}
}

func (a *App) saveSettings() {
	if a.store == nil {
		return
	}
	if err := a.store.Save(a.gallery.Config()); err != nil {
		a.log.WithError(err).Warn("failed to save settings")
		return
	}
	a.log.WithField("path", a.store.Path()).Debug("settings saved")
}
