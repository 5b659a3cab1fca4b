package chrome

import (
	"github.com/Recrutamentebr/recrutamente-sub000/pkg/logger"
)

// Option applies a configuration option to the Factory.
type Option func(*Factory)

// WithExecPath runs the browser binary at path instead of searching PATH.
func WithExecPath(path string) Option {
	return func(f *Factory) {
		f.execPath = path
	}
}

// WithDeviceScale sets the pixel density of screenshots.
func WithDeviceScale(scale float64) Option {
	return func(f *Factory) {
		if scale > 0 {
			f.scale = scale
		}
	}
}

// WithHeadless toggles headless mode (on by default).
func WithHeadless(headless bool) Option {
	return func(f *Factory) {
		f.headless = headless
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(f *Factory) {
		if l != nil {
			f.log = l
		}
	}
}
