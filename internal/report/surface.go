package report

import (
	"context"
	"fmt"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/layout"
)

// Surface is an off-screen render target owned by exactly one export.
// Images are PNG encoded.
type Surface interface {
	// Measure lays out doc at its own width and returns the height of every
	// element whose id is listed. It returns layout.ErrMeasureUnavailable
	// when per-element layout cannot be read.
	Measure(ctx context.Context, doc string, ids []string) (map[string]float64, error)
	// RasterizePage captures doc clipped to one page.
	RasterizePage(ctx context.Context, doc string, width, height float64) ([]byte, error)
	// RasterizeFull captures the whole scroll height of doc.
	RasterizeFull(ctx context.Context, doc string, width float64) ([]byte, error)
	// AssemblePDF places one image per page on A4 portrait paper.
	AssemblePDF(ctx context.Context, pages [][]byte, l layout.Layout) ([]byte, error)
	// Close releases the surface.
	Close() error
}

// SurfaceFactory hands out fresh surfaces.
type SurfaceFactory interface {
	NewSurface(ctx context.Context) (Surface, error)
}

// SurfaceFactoryFunc adapts a function to SurfaceFactory.
type SurfaceFactoryFunc func(ctx context.Context) (Surface, error)

// NewSurface calls f.
func (f SurfaceFactoryFunc) NewSurface(ctx context.Context) (Surface, error) { return f(ctx) }

// surfaceMeasurer measures blocks in the export's own surface.
type surfaceMeasurer struct {
	c       *Compositor
	surface Surface
}

func (m surfaceMeasurer) Measure(ctx context.Context, blocks []layout.Block, _ float64) ([]layout.Section, error) {
	doc, err := m.c.flowHTML(blocks)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
	}
	heights, err := m.surface.Measure(ctx, doc, ids)
	if err != nil {
		return nil, err
	}
	out := make([]layout.Section, len(blocks))
	for i, b := range blocks {
		h, ok := heights[b.ID]
		if !ok {
			return nil, fmt.Errorf("%w: no height for %s", layout.ErrMeasureUnavailable, b.ID)
		}
		out[i] = layout.Section{ID: b.ID, Kind: b.Kind, Height: h}
	}
	return out, nil
}
