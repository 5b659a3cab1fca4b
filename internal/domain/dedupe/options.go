package dedupe

import "time"

// Option applies a configuration option to the in-memory guard.
type Option func(*inMemoryGuard)

// WithMaxSize sets the maximum number of keys held at once.
// maxSize <= 0 removes the limit.
func WithMaxSize(maxSize int) Option {
	return func(g *inMemoryGuard) {
		g.maxSize = maxSize
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *inMemoryGuard) {
		if now != nil {
			g.now = now
		}
	}
}
