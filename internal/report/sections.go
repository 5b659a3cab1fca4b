package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/layout"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/model"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/scoring"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	t, err := template.New("report").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse report templates: %w", err)
	}
	return t, nil
}

// contentWidth is the inner width of main, minus its horizontal padding.
func contentWidth(l layout.Layout) float64 {
	return l.PageWidth - 2*48
}

type cardView struct {
	Candidate model.Candidate
	JobTitle  string
	Submitted string
}

type recommendationView struct {
	Overall int
	Level   scoring.Level
	Text    string
}

type rosterView struct {
	Candidate model.Candidate
	Analysis  scoring.AnalysisResult
	Custom    scoring.CustomScoreSummary
	Chart     chartView
}

type pageSection struct {
	ID   string
	Kind layout.Kind
	HTML template.HTML
}

type pageView struct {
	Width        float64
	Height       float64
	TopMargin    float64
	FooterHeight float64
	Brand        string
	Title        string
	Notice       string
	Number       int
	Total        int
	Sections     []pageSection
}

type flowView struct {
	Width    float64
	Sections []pageSection
}

func (c *Compositor) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := c.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute %s: %w", name, err)
	}
	return buf.String(), nil
}

type blockSpec struct {
	id   string
	kind layout.Kind
	tmpl string
	data any
	text string
	rows int
}

// blocks builds the ordered sections of a request. Optional candidate data
// that is missing is left out of the markup.
func (c *Compositor) blocks(req Request) ([]layout.Block, error) {
	width := contentWidth(c.layout)
	var specs []blockSpec
	for i, e := range req.Entries {
		app := e.Application
		chart := newChartView(scoring.ChartData(e.Analysis), width)

		if req.Mode == ModeRoster {
			specs = append(specs, blockSpec{
				id:   fmt.Sprintf("roster-%d", i),
				kind: layout.KindRoster,
				tmpl: "roster",
				data: rosterView{Candidate: app.Candidate, Analysis: e.Analysis, Custom: e.Custom, Chart: chart},
				text: app.Candidate.Name,
			})
			continue
		}

		card := cardView{Candidate: app.Candidate, JobTitle: req.Job.Title}
		if !app.SubmittedAt.IsZero() {
			card.Submitted = app.SubmittedAt.Format("02/01/2006")
		}
		specs = append(specs,
			blockSpec{id: fmt.Sprintf("card-%d", i), kind: layout.KindCard, tmpl: "card", data: card, text: cardText(app.Candidate)},
			blockSpec{id: fmt.Sprintf("chart-%d", i), kind: layout.KindChart, tmpl: "chart", data: chart, rows: len(chart.Bars)},
			blockSpec{
				id:   fmt.Sprintf("recommendation-%d", i),
				kind: layout.KindRecommendation,
				tmpl: "recommendation",
				data: recommendationView{
					Overall: e.Analysis.Overall,
					Level:   e.Analysis.Recommendation.Level,
					Text:    e.Analysis.Recommendation.Text,
				},
				text: e.Analysis.Recommendation.Text,
			},
		)
		if len(e.Custom.Items) > 0 {
			specs = append(specs, blockSpec{
				id:   fmt.Sprintf("questions-%d", i),
				kind: layout.KindQuestions,
				tmpl: "questions",
				data: e.Custom,
				rows: len(e.Custom.Items),
			})
		}
	}

	out := make([]layout.Block, 0, len(specs))
	for _, s := range specs {
		html, err := c.execute(s.tmpl, s.data)
		if err != nil {
			return nil, err
		}
		out = append(out, layout.Block{ID: s.id, Kind: s.kind, HTML: html, Text: s.text, Rows: s.rows})
	}
	return out, nil
}

func cardText(cand model.Candidate) string {
	parts := []string{cand.Name, cand.Email, cand.Phone, cand.Location(), cand.LinkedIn, cand.Education, cand.Experience}
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return b.String()
}

// pageHTML wraps the sections of one page with the running header and footer.
func (c *Compositor) pageHTML(req Request, sections []pageSection, number, total int) (string, error) {
	return c.execute("page", pageView{
		Width:        c.layout.PageWidth,
		Height:       c.layout.PageHeight,
		TopMargin:    c.layout.TopMargin,
		FooterHeight: c.layout.FooterHeight,
		Brand:        c.brand,
		Title:        title(req),
		Notice:       c.notice,
		Number:       number,
		Total:        total,
		Sections:     sections,
	})
}

// flowHTML lays every block out in one column of page width, as used for
// measurement and for the tall fallback raster.
func (c *Compositor) flowHTML(blocks []layout.Block) (string, error) {
	secs := make([]pageSection, len(blocks))
	for i, b := range blocks {
		secs[i] = pageSection{ID: b.ID, Kind: b.Kind, HTML: template.HTML(b.HTML)} //nolint:gosec // produced by our own templates
	}
	return c.execute("flow", flowView{Width: c.layout.PageWidth, Sections: secs})
}

func title(req Request) string {
	switch req.Mode {
	case ModeSingle:
		return "Relatório do candidato · " + req.Entries[0].Application.Candidate.Name
	case ModeRoster:
		return "Resumo de candidatos · " + req.Job.Title
	default:
		return "Relatório de candidatos · " + req.Job.Title
	}
}
