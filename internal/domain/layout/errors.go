package layout

import "errors"

var (
	// ErrMeasureUnavailable means sections cannot be measured individually;
	// callers fall back to slicing one tall raster.
	ErrMeasureUnavailable = errors.New("section measurement unavailable")
	// ErrInvalidLayout is returned for page geometries without content area.
	ErrInvalidLayout = errors.New("invalid layout")
)
