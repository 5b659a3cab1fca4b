package report_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"time"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/layout"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/model"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/scoring"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/report"
)

// minimalPDF writes a valid PDF with n empty A4 pages.
func minimalPDF(n int) []byte {
	var buf bytes.Buffer
	offsets := []int{}
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	kids := make([]string, n)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))
	for i := 0; i < n; i++ {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func solidPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

var errRasterizer = errors.New("rasterizer crashed")

// fakeSurface records what the compositor asks of it.
type fakeSurface struct {
	heights     map[string]float64 // by section kind prefix
	measureErr  error
	failOnPage  int
	tallHeight  int
	pdfPages    int // 0 means one page per image
	measured    int
	rendered    []string
	fullDocs    []string
	closeCalled int
}

func (s *fakeSurface) Measure(_ context.Context, _ string, ids []string) (map[string]float64, error) {
	s.measured++
	if s.measureErr != nil {
		return nil, s.measureErr
	}
	out := make(map[string]float64, len(ids))
	for _, id := range ids {
		kind, _, _ := strings.Cut(id, "-")
		out[id] = s.heights[kind]
	}
	return out, nil
}

func (s *fakeSurface) RasterizePage(_ context.Context, doc string, _, _ float64) ([]byte, error) {
	s.rendered = append(s.rendered, doc)
	if s.failOnPage > 0 && len(s.rendered) == s.failOnPage {
		return nil, errRasterizer
	}
	return solidPNG(4, 4), nil
}

func (s *fakeSurface) RasterizeFull(_ context.Context, doc string, _ float64) ([]byte, error) {
	s.fullDocs = append(s.fullDocs, doc)
	return solidPNG(8, s.tallHeight), nil
}

func (s *fakeSurface) AssemblePDF(_ context.Context, pages [][]byte, _ layout.Layout) ([]byte, error) {
	if s.pdfPages > 0 {
		return minimalPDF(s.pdfPages), nil
	}
	return minimalPDF(len(pages)), nil
}

func (s *fakeSurface) Close() error {
	s.closeCalled++
	return nil
}

// fakeFactory hands out surfaces built by newSurface and remembers them.
type fakeFactory struct {
	mu         sync.Mutex
	newSurface func() *fakeSurface
	err        error
	surfaces   []*fakeSurface
}

func (f *fakeFactory) NewSurface(context.Context) (report.Surface, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := f.newSurface()
	f.mu.Lock()
	f.surfaces = append(f.surfaces, s)
	f.mu.Unlock()
	return s, nil
}

func defaultHeights() map[string]float64 {
	return map[string]float64{
		"card":           200,
		"chart":          250,
		"recommendation": 120,
		"questions":      300,
		"roster":         480,
	}
}

var fixedDate = time.Date(2026, 10, 18, 14, 30, 0, 0, time.UTC)

func entry(name string) report.Entry {
	answers := map[string]string{
		"ingles":            "Avançado / Fluente",
		"tempo_experiencia": "Mais de 5 anos",
		"comunicacao":       "Muito bom",
		"q1":                "Antecipo riscos|4",
	}
	defs := []scoring.ScoredQuestionDefinition{{ID: "q1", Question: "Como lida com prazos?"}}
	return report.Entry{
		Application: model.Application{
			ID:          "app-" + name,
			Candidate:   model.Candidate{Name: name, City: "Recife", State: "PE"},
			Answers:     answers,
			SubmittedAt: fixedDate,
		},
		Analysis: scoring.ComputeAnalysis(answers),
		Custom:   scoring.ScoreCustomQuestions(defs, answers),
	}
}

func job() model.Job {
	return model.Job{ID: "job-1", Title: "Analista de Dados"}
}
