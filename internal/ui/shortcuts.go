// Package ui  Shortcuts for keyboard actions
package ui

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"gallerywall/internal/gallery"
)

func (a *App) buildKeyboardShortcuts() {
	// ctrl+q to quit application
	a.UI.MainWin.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyQ,
		Modifier: a.UI.mainModKey,
	}, func(_ fyne.Shortcut) { a.app.Quit() })

	a.UI.MainWin.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeyF:
			a.UI.MainWin.SetFullScreen(!a.UI.MainWin.FullScreen())
		case fyne.KeySpace:
			paused := a.gallery.ToggleFlips()
			a.log.WithField("paused", paused).Info("flips toggled")
		case fyne.KeyZ:
			a.zoomRandom()
		case fyne.KeyR:
			go a.rescan()
		case fyne.KeyN:
			a.gallery.Reset(a.now())
		case fyne.KeyO:
			a.chooseFolder()
		// grid size
		case fyne.KeyUp:
			a.resize(1, 0)
		case fyne.KeyDown:
			a.resize(-1, 0)
		case fyne.KeyRight:
			a.resize(0, 1)
		case fyne.KeyLeft:
			a.resize(0, -1)
		case fyne.KeyL:
			a.toggleLogOverlay()
		case fyne.KeyH:
			a.showShortcuts()
		case fyne.KeyEscape, fyne.KeyQ:
			a.app.Quit()
		}
	})
}

func (a *App) zoomRandom() {
	n := a.gallery.Len()
	if n == 0 {
		return
	}
	err := a.gallery.RequestZoom(a.rng.Intn(n))
	if errors.Is(err, gallery.ErrZoomActive) {
		return
	}
	if err != nil {
		a.log.WithError(err).Warn("zoom failed")
	}
}

func (a *App) chooseFolder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, a.UI.MainWin)
			return
		}
		if uri == nil {
			return // cancelled
		}
		go func() {
			if err := a.setFolder(uri.Path()); err != nil {
				fyne.Do(func() { dialog.ShowError(err, a.UI.MainWin) })
			}
		}()
	}, a.UI.MainWin)
}

// setFolder points the gallery and the watcher at folder. Both keep the old folder on error.
func (a *App) setFolder(folder string) error {
	if err := a.gallery.SetFolder(folder); err != nil {
		a.log.WithError(err).WithField("path", folder).Warn("cannot switch folder")
		return err
	}
	a.watcher.SetDir(folder)
	a.log.WithField("path", folder).Info("folder changed")
	return nil
}

func (a *App) resize(dRows, dCols int) {
	rows, cols := a.gallery.GridSize()
	if err := a.gallery.Resize(rows+dRows, cols+dCols); err != nil {
		a.log.WithError(err).Debug("resize rejected")
	}
}

func (a *App) showShortcuts() {
	shortcuts := []string{
		"Ctrl+Q, Q or Esc",
		"F", "Space", "Z", "R", "N", "O",
		"Arrow Up", "Arrow Down",
		"Arrow Right", "Arrow Left",
		"L", "H",
	}
	descriptions := []string{
		"Quit Application",
		"Toggle Fullscreen", "Pause/Resume Flips", "Zoom a Random Cell", "Rescan Folder", "Replay Appearance", "Open Folder",
		"Add a Row", "Remove a Row",
		"Add a Column", "Remove a Column",
		"Show Recent Warnings", "Show Shortcuts",
	}

	win := a.app.NewWindow("Keyboard Shortcuts")
	table := widget.NewTable(
		func() (int, int) { return len(descriptions) + 1, 2 }, // +1 for header row
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			column := descriptions
			if id.Col == 1 {
				column = shortcuts
			}
			label.TextStyle.Bold = id.Row == 0
			if id.Row == 0 {
				label.SetText(ternary(id.Col == 0, "Description", "Shortcut"))
				return
			}
			label.SetText(column[id.Row-1])
		},
	)
	table.SetColumnWidth(0, 250)
	table.SetColumnWidth(1, 250)
	win.SetContent(table)
	win.Resize(fyne.NewSize(500, 400))
	win.Show()
}

func ternary(condition bool, trueVal, falseVal string) string {
	if condition {
		return trueVal
	}
	return falseVal
}
