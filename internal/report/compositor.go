package report

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"math"
	"time"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/layout"
	"github.com/Recrutamentebr/recrutamente-sub000/pkg/logger"
	"github.com/Recrutamentebr/recrutamente-sub000/pkg/metrics"
)

const (
	defaultDeviceScale = 2
	defaultBrand       = "RecrutaMente"
	defaultNotice      = "Documento confidencial · uso restrito ao processo seletivo"

	kindBand layout.Kind = "band"
)

// State is the step an export is in.
type State int

// Export states. Rendering repeats once per page.
const (
	StateIdle State = iota
	StateMeasuring
	StatePacking
	StateRendering
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMeasuring:
		return "measuring"
	case StatePacking:
		return "packing"
	case StateRendering:
		return "rendering"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Option applies a configuration option to the Compositor.
type Option func(*Compositor)

// WithLayout sets the page geometry.
func WithLayout(l layout.Layout) Option {
	return func(c *Compositor) {
		c.layout = l
	}
}

// WithMeasurer measures sections with m instead of the export's surface.
// Pages clip their content, so a section taller than m's estimate loses
// its overflowing part in the PDF.
func WithMeasurer(m layout.SectionMeasurer) Option {
	return func(c *Compositor) {
		c.measurer = m
	}
}

// WithDeviceScale sets the raster pixel density. It must match the surface.
func WithDeviceScale(scale float64) Option {
	return func(c *Compositor) {
		if scale > 0 {
			c.scale = scale
		}
	}
}

// WithBrand sets the header logo text.
func WithBrand(brand string) Option {
	return func(c *Compositor) {
		if brand != "" {
			c.brand = brand
		}
	}
}

// WithNotice sets the footer confidentiality notice.
func WithNotice(notice string) Option {
	return func(c *Compositor) {
		if notice != "" {
			c.notice = notice
		}
	}
}

// WithTimeout bounds a whole export. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Compositor) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// WithClock sets the clock used for filename dates.
func WithClock(now func() time.Time) Option {
	return func(c *Compositor) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Compositor) {
		if l != nil {
			c.log = l
		}
	}
}

// WithStateHook observes state transitions. page is 1-based while rendering
// and 0 otherwise.
func WithStateHook(fn func(s State, page int)) Option {
	return func(c *Compositor) {
		c.hook = fn
	}
}

// WithVerify toggles the page count check on assembled documents.
func WithVerify(enabled bool) Option {
	return func(c *Compositor) {
		c.verify = enabled
	}
}

// Compositor lays candidate sections out on pages and renders them into
// one PDF. It holds no per-export state and is safe for concurrent use;
// every export gets its own Surface.
type Compositor struct {
	factory  SurfaceFactory
	measurer layout.SectionMeasurer
	layout   layout.Layout
	scale    float64
	brand    string
	notice   string
	timeout  time.Duration
	verify   bool
	now      func() time.Time
	log      logger.Logger
	hook     func(State, int)
	tmpl     *template.Template
}

// New creates a compositor drawing on surfaces from factory.
func New(factory SurfaceFactory, opts ...Option) (*Compositor, error) {
	if factory == nil {
		return nil, errors.New("report: nil surface factory")
	}
	c := &Compositor{
		factory: factory,
		layout:  layout.A4(),
		scale:   defaultDeviceScale,
		brand:   defaultBrand,
		notice:  defaultNotice,
		verify:  true,
		now:     time.Now,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.layout.Validate(); err != nil {
		return nil, err
	}
	if contentWidth(c.layout) <= 0 {
		return nil, fmt.Errorf("%w: page narrower than its padding", layout.ErrInvalidLayout)
	}
	if c.measurer != nil {
		c.log.Warn(context.Background(), "section heights are estimated; content taller than its estimate is clipped")
	}
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	c.tmpl = tmpl
	return c, nil
}

// Layout returns the page geometry in use.
func (c *Compositor) Layout() layout.Layout { return c.layout }

type exportRun struct {
	c    *Compositor
	mode Mode
}

func (r exportRun) enter(ctx context.Context, s State, page int) {
	if r.c.hook != nil {
		r.c.hook(s, page)
	}
	r.c.log.Debug(ctx, "export state",
		logger.String("mode", string(r.mode)),
		logger.String("state", s.String()),
		logger.Int("page", page),
	)
}

// Export composes req into a PDF. On failure it returns a *ExportError and
// no document.
func (c *Compositor) Export(ctx context.Context, req Request) (*Document, error) {
	if err := req.validate(); err != nil {
		return nil, &ExportError{Mode: req.Mode, Stage: "validate", Kind: ErrInvalidRequest, Err: err}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	run := exportRun{c: c, mode: req.Mode}
	run.enter(ctx, StateIdle, 0)

	doc, stage, err := c.export(ctx, req, run)
	if err != nil {
		run.enter(ctx, StateFailed, 0)
		metrics.RecordExportFailure(string(req.Mode), stage)
		c.log.Error(ctx, "export failed",
			logger.String("mode", string(req.Mode)),
			logger.String("stage", stage),
			logger.Int("candidates", len(req.Entries)),
			logger.Error(err),
		)
		return nil, &ExportError{Mode: req.Mode, Stage: stage, Kind: ErrRenderFailure, Err: err}
	}
	run.enter(ctx, StateDone, 0)

	elapsed := time.Since(start)
	metrics.RecordExport(string(req.Mode), float64(elapsed.Milliseconds()), doc.Pages)
	c.log.Info(ctx, "export finished",
		logger.String("mode", string(req.Mode)),
		logger.String("filename", doc.Filename),
		logger.Int("pages", doc.Pages),
		logger.Bool("fallback", doc.Fallback),
		logger.Duration("elapsed", elapsed),
	)
	return doc, nil
}

// export runs the pipeline and returns the failing stage with any error.
func (c *Compositor) export(ctx context.Context, req Request, run exportRun) (*Document, string, error) {
	blocks, err := c.blocks(req)
	if err != nil {
		return nil, "compose", err
	}

	acquired := time.Now()
	surface, err := c.factory.NewSurface(ctx)
	if err != nil {
		return nil, "surface", err
	}
	metrics.RecordSurfaceAcquire(float64(time.Since(acquired).Milliseconds()))
	defer func() {
		if cerr := surface.Close(); cerr != nil {
			c.log.Warn(ctx, "closing render surface", logger.Error(cerr))
		}
	}()

	run.enter(ctx, StateMeasuring, 0)
	measurer := c.measurer
	if measurer == nil {
		measurer = surfaceMeasurer{c: c, surface: surface}
	}
	sections, err := measurer.Measure(ctx, blocks, contentWidth(c.layout))

	doc := &Document{Mode: req.Mode, Filename: filenameFor(req, c.now())}
	var images [][]byte
	switch {
	case errors.Is(err, layout.ErrMeasureUnavailable):
		c.log.Warn(ctx, "section measurement unavailable, slicing full raster", logger.Error(err))
		metrics.RecordRasterFallback()
		doc.Fallback = true
		images, err = c.renderFallback(ctx, req, run, surface, blocks)
		if err != nil {
			return nil, "render", err
		}
	case err != nil:
		return nil, "measure", err
	default:
		run.enter(ctx, StatePacking, 0)
		pages := c.pack(req.Mode, sections)
		metrics.RecordSectionsPacked(len(sections))
		for _, p := range pages {
			if p.Overflow {
				doc.Overflow++
				metrics.RecordOversizedSection()
			}
		}
		images, err = c.renderPages(ctx, req, run, surface, pages, blocks)
		if err != nil {
			return nil, "render", err
		}
	}

	pdf, err := surface.AssemblePDF(ctx, images, c.layout)
	if err != nil {
		return nil, "assemble", err
	}
	if c.verify {
		if err := VerifyPages(pdf, len(images)); err != nil {
			return nil, "verify", err
		}
	}
	doc.PDF = pdf
	doc.Pages = len(images)
	return doc, "", nil
}

func (c *Compositor) pack(mode Mode, sections []layout.Section) []layout.Page {
	if mode == ModeRoster {
		return layout.PackFixed(sections, RosterPerPage)
	}
	return layout.Pack(sections, c.layout.Usable())
}

func (c *Compositor) renderPages(ctx context.Context, req Request, run exportRun, surface Surface, pages []layout.Page, blocks []layout.Block) ([][]byte, error) {
	byID := make(map[string]layout.Block, len(blocks))
	for _, b := range blocks {
		byID[b.ID] = b
	}
	filler, err := c.execute("filler", nil)
	if err != nil {
		return nil, err
	}

	images := make([][]byte, 0, len(pages))
	for i, p := range pages {
		run.enter(ctx, StateRendering, i+1)
		secs := make([]pageSection, 0, len(p.Sections))
		for _, s := range p.Sections {
			html := filler
			if !s.IsFiller() {
				html = byID[s.ID].HTML
			}
			secs = append(secs, pageSection{ID: s.ID, Kind: s.Kind, HTML: template.HTML(html)}) //nolint:gosec // produced by our own templates
		}
		img, err := c.rasterize(ctx, req, surface, secs, i+1, len(pages))
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		images = append(images, img)
	}
	return images, nil
}

// renderFallback renders everything once and slices it into page bands.
func (c *Compositor) renderFallback(ctx context.Context, req Request, run exportRun, surface Surface, blocks []layout.Block) ([][]byte, error) {
	doc, err := c.flowHTML(blocks)
	if err != nil {
		return nil, err
	}
	tall, err := surface.RasterizeFull(ctx, doc, c.layout.PageWidth)
	if err != nil {
		return nil, fmt.Errorf("full raster: %w", err)
	}
	bands, err := SliceBands(tall, c.bandHeight())
	if err != nil {
		return nil, err
	}

	images := make([][]byte, 0, len(bands))
	for i, band := range bands {
		run.enter(ctx, StateRendering, i+1)
		src := template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(band)) //nolint:gosec // our own PNG
		html, err := c.execute("band", src)
		if err != nil {
			return nil, err
		}
		secs := []pageSection{{ID: fmt.Sprintf("band-%d", i), Kind: kindBand, HTML: template.HTML(html)}} //nolint:gosec // produced by our own templates
		img, err := c.rasterize(ctx, req, surface, secs, i+1, len(bands))
		if err != nil {
			return nil, fmt.Errorf("band %d: %w", i+1, err)
		}
		images = append(images, img)
	}
	return images, nil
}

// bandHeight is the raster height of one band such that, scaled to the
// content width, it fills the usable page height.
func (c *Compositor) bandHeight() int {
	ratio := c.layout.PageWidth / contentWidth(c.layout)
	return int(math.Floor(c.layout.Usable() * c.scale * ratio))
}

func (c *Compositor) rasterize(ctx context.Context, req Request, surface Surface, secs []pageSection, number, total int) ([]byte, error) {
	html, err := c.pageHTML(req, secs, number, total)
	if err != nil {
		return nil, err
	}
	return surface.RasterizePage(ctx, html, c.layout.PageWidth, c.layout.PageHeight)
}
