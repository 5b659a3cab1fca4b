// Package dedupe tracks in-flight work keys so the same export is not run
// twice at the same time.
package dedupe

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Guard records keys while their work runs.
type Guard interface {
	// Acquire atomically records key. It fails with ErrInFlight when the key
	// is already held and with ErrCapacity when the guard is full.
	Acquire(ctx context.Context, key string) error

	// Release forgets key. Releasing an unknown key is a no-op.
	Release(ctx context.Context, key string)

	// Snapshot lists the held keys, oldest first.
	Snapshot() []Entry

	Size() int64
}

// Entry is one held key.
type Entry struct {
	Key   string    `json:"key"`
	Since time.Time `json:"since"`
}

// inMemoryGuard implements Guard with a mutex-protected map.
// maxSize <= 0 means unbounded.
type inMemoryGuard struct {
	mu      sync.Mutex
	held    map[string]time.Time
	maxSize int
	size    atomic.Int64
	now     func() time.Time
}

// NewInMemoryGuard creates a new in-memory guard with configuration options.
func NewInMemoryGuard(opts ...Option) Guard {
	g := &inMemoryGuard{
		maxSize: 10000,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.held = make(map[string]time.Time)
	return g
}

func (g *inMemoryGuard) Acquire(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.held[key]; exists {
		return ErrInFlight
	}
	if g.maxSize > 0 && len(g.held) >= g.maxSize {
		return ErrCapacity
	}
	g.held[key] = g.now()
	g.size.Add(1)
	return nil
}

func (g *inMemoryGuard) Release(_ context.Context, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.held[key]; exists {
		delete(g.held, key)
		g.size.Add(-1)
	}
}

func (g *inMemoryGuard) Snapshot() []Entry {
	g.mu.Lock()
	out := make([]Entry, 0, len(g.held))
	for k, since := range g.held {
		out = append(out, Entry{Key: k, Since: since})
	}
	g.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Since.Equal(out[j].Since) {
			return out[i].Key < out[j].Key
		}
		return out[i].Since.Before(out[j].Since)
	})
	return out
}

// Size returns the number of held keys.
func (g *inMemoryGuard) Size() int64 {
	return g.size.Load()
}
