package gallery

import (
	"errors"

	"gallerywall/internal/scan"
)

var (
	// ErrCellOutOfRange is returned for a cell index outside the current grid.
	ErrCellOutOfRange = errors.New("cell index out of range")
	// ErrZoomActive is returned when a zoom is requested while another one is pending or running.
	ErrZoomActive = errors.New("another cell is already zooming")
	// ErrDirectoryUnavailable is returned when the watched folder cannot be listed.
	ErrDirectoryUnavailable = scan.ErrDirectoryUnavailable
	// ErrInvalidConfig wraps configuration validation failures.
	ErrInvalidConfig = errors.New("invalid gallery configuration")
)
