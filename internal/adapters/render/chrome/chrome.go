// Package chrome implements report surfaces on a headless Chrome tab driven
// through the DevTools protocol.
package chrome

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/layout"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/report"
	"github.com/Recrutamentebr/recrutamente-sub000/pkg/logger"
)

const (
	defaultDeviceScale = 2
	cssPixelsPerInch   = 96
	measureViewport    = 1000
)

// Factory starts one browser per surface.
type Factory struct {
	execPath string
	scale    float64
	headless bool
	log      logger.Logger
}

// NewFactory creates a surface factory.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		scale:    defaultDeviceScale,
		headless: true,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Factory) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", f.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if f.execPath != "" {
		opts = append(opts, chromedp.ExecPath(f.execPath))
	}
	return opts
}

// NewSurface starts a browser and opens a blank tab. The surface lives until
// Close or until ctx is done.
func (f *Factory) NewSurface(ctx context.Context) (report.Surface, error) {
	start := time.Now()
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.allocatorOptions()...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(tabCtx, chromedp.Navigate("about:blank")); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	f.log.Debug(ctx, "browser started", logger.Duration("took", time.Since(start)))

	return &Surface{
		ctx:   tabCtx,
		scale: f.scale,
		log:   f.log,
		cancel: func() {
			cancelTab()
			cancelAlloc()
		},
	}, nil
}

// Surface is one browser tab. Its methods are not safe for concurrent use;
// a surface belongs to a single export.
type Surface struct {
	ctx    context.Context
	scale  float64
	log    logger.Logger
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// run executes actions in the tab, bounded by the caller's ctx as well.
func (s *Surface) run(ctx context.Context, actions ...chromedp.Action) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tabCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(tabCtx, actions...)
}

// load replaces the tab's document and waits for fonts.
func load(doc string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		if err := page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx); err != nil {
			return err
		}
		var ready bool
		return chromedp.Evaluate(`document.fonts.ready.then(() => true)`, &ready, awaitPromise).Do(ctx)
	})
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

func (s *Surface) viewport(width, height float64) chromedp.Action {
	return emulation.SetDeviceMetricsOverride(int64(math.Ceil(width)), int64(math.Ceil(height)), s.scale, false)
}

const measureScript = `(() => {
	const out = {};
	for (const id of %s) {
		const el = document.getElementById(id);
		if (!el) continue;
		const st = getComputedStyle(el);
		out[id] = el.getBoundingClientRect().height + parseFloat(st.marginTop) + parseFloat(st.marginBottom);
	}
	return out;
})()`

// Measure implements report.Surface.
func (s *Surface) Measure(ctx context.Context, doc string, ids []string) (map[string]float64, error) {
	list, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	heights := make(map[string]float64, len(ids))
	err = s.run(ctx,
		s.viewport(layout.DefaultPageWidth, measureViewport),
		load(doc),
		chromedp.Evaluate(fmt.Sprintf(measureScript, list), &heights),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", layout.ErrMeasureUnavailable, err)
	}
	if len(heights) == 0 && len(ids) > 0 {
		return nil, layout.ErrMeasureUnavailable
	}
	return heights, nil
}

func (s *Surface) capture(width, height float64, out *[]byte) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		buf, err := page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithCaptureBeyondViewport(true).
			WithClip(&page.Viewport{Width: width, Height: height, Scale: 1}).
			Do(ctx)
		if err != nil {
			return err
		}
		*out = buf
		return nil
	})
}

// RasterizePage implements report.Surface.
func (s *Surface) RasterizePage(ctx context.Context, doc string, width, height float64) ([]byte, error) {
	var png []byte
	err := s.run(ctx,
		s.viewport(width, height),
		load(doc),
		s.capture(width, height, &png),
	)
	if err != nil {
		return nil, fmt.Errorf("rasterize page: %w", err)
	}
	return png, nil
}

// RasterizeFull implements report.Surface.
func (s *Surface) RasterizeFull(ctx context.Context, doc string, width float64) ([]byte, error) {
	var (
		height float64
		png    []byte
	)
	err := s.run(ctx,
		s.viewport(width, measureViewport),
		load(doc),
		chromedp.Evaluate(`document.documentElement.scrollHeight`, &height),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if err := s.viewport(width, height).Do(ctx); err != nil {
				return err
			}
			return s.capture(width, height, &png).Do(ctx)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("rasterize document: %w", err)
	}
	return png, nil
}

// AssemblePDF implements report.Surface. Each image fills one page.
func (s *Surface) AssemblePDF(ctx context.Context, pages [][]byte, l layout.Layout) ([]byte, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	var doc []byte
	err := s.run(ctx,
		s.viewport(l.PageWidth, l.PageHeight),
		load(sheetHTML(pages, l)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(l.PageWidth / cssPixelsPerInch).
				WithPaperHeight(l.PageHeight / cssPixelsPerInch).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			doc = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("assemble pdf: %w", err)
	}
	s.log.Debug(ctx, "pdf assembled", logger.Int("pages", len(pages)), logger.Int("bytes", len(doc)))
	return doc, nil
}

// sheetHTML lays out one full-bleed image per printed page.
func sheetHTML(pages [][]byte, l layout.Layout) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<!DOCTYPE html><html><head><meta charset="utf-8"><style>`+
		`@page{size:%[1]gpx %[2]gpx;margin:0}`+
		`html,body{margin:0;padding:0}`+
		`img{display:block;width:%[1]gpx;height:%[2]gpx;break-after:page}`+
		`img:last-child{break-after:auto}`+
		`</style></head><body>`, l.PageWidth, l.PageHeight)
	for _, p := range pages {
		b.WriteString(`<img src="data:image/png;base64,`)
		b.WriteString(base64.StdEncoding.EncodeToString(p))
		b.WriteString(`">`)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

// Close shuts the browser down. It is safe to call more than once.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.cancel()
	return nil
}
