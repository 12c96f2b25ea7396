package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"gallerywall/internal/gallery"
)

// wallTheme wraps an existing theme with a black background and no padding, so the
// raster fills the window edge to edge.
type wallTheme struct {
	fyne.Theme
}

// Ensure wallTheme implements fyne.Theme
var _ fyne.Theme = (*wallTheme)(nil)

// Size overrides the default theme size for padding.
func (t *wallTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNamePadding {
		return 0
	}
	return t.Theme.Size(name)
}

func (t *wallTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if name == theme.ColorNameBackground {
		return gallery.PlaceholderColor
	}
	return t.Theme.Color(name, variant)
}

func (t *wallTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.Theme.Font(style)
}

func (t *wallTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.Theme.Icon(name)
}

// NewWallTheme creates a new theme wrapper for the gallery window.
// It bases itself on the currently set theme.
func NewWallTheme(baseTheme fyne.Theme) fyne.Theme {
	return &wallTheme{Theme: baseTheme}
}
