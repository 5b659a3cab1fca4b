// Package sheet writes job rosters as Excel workbooks.
package sheet

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/model"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/scoring"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/report"
)

// Sheet names.
const (
	SummarySheet    = "Resumo"
	CandidatesSheet = "Candidatos"
)

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Filename returns the download name of a job's workbook.
func Filename(jobTitle string, date time.Time) string {
	title := report.Slug(jobTitle)
	if title == "" {
		title = "Vaga"
	}
	return fmt.Sprintf("Candidatos_%s_%s.xlsx", title, date.Format("2006-01-02"))
}

// candidateColumns precede one column per taxonomy category.
var candidateColumns = []string{"Nome", "E-mail", "Telefone", "Localização", "Candidatura"} //nolint:gochecknoglobals // column layout

// WriteRoster writes the workbook for job. Entries keep their order.
func WriteRoster(w io.Writer, job model.Job, entries []report.Entry, generated time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(CandidatesSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1F4E79"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	label, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("label style: %w", err)
	}

	if err := writeSummary(f, job, entries, generated, label); err != nil {
		return err
	}
	if err := writeCandidates(f, entries, header); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, job model.Job, entries []report.Entry, generated time.Time, label int) error {
	rows := [][2]any{
		{"Vaga", job.Title},
		{"Empresa", job.Company},
		{"Local", job.Location},
		{"Gerado em", generated.Format("2006-01-02 15:04")},
		{"Candidatos", len(entries)},
	}

	counts := make(map[scoring.Level]int)
	total, scored := 0, 0
	for _, e := range entries {
		lvl := e.Analysis.Recommendation.Level
		counts[lvl]++
		// Candidates without scorable answers would drag the mean to zero.
		if lvl == scoring.LevelInsufficientData {
			continue
		}
		total += e.Analysis.Overall
		scored++
	}
	avg := 0.0
	if scored > 0 {
		avg = float64(total) / float64(scored)
	}
	rows = append(rows, [2]any{"Média geral", fmt.Sprintf("%.1f", avg)})
	for _, lvl := range []scoring.Level{
		scoring.LevelHighlyQualified,
		scoring.LevelGoodPotential,
		scoring.LevelPartiallyAligned,
		scoring.LevelLowAlignment,
		scoring.LevelInsufficientData,
	} {
		rows = append(rows, [2]any{lvl.String(), counts[lvl]})
	}

	if err := f.SetColWidth(SummarySheet, "A", "A", 36); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 48); err != nil {
		return err
	}
	for i, r := range rows {
		a := fmt.Sprintf("A%d", i+1)
		if err := f.SetCellValue(SummarySheet, a, r[0]); err != nil {
			return err
		}
		if err := f.SetCellStyle(SummarySheet, a, a, label); err != nil {
			return err
		}
		if err := f.SetCellValue(SummarySheet, fmt.Sprintf("B%d", i+1), r[1]); err != nil {
			return err
		}
	}
	return nil
}

func writeCandidates(f *excelize.File, entries []report.Entry, header int) error {
	cats := scoring.Categories()
	head := append([]any{}, toAny(candidateColumns)...)
	for _, c := range cats {
		head = append(head, string(c))
	}
	head = append(head, "Geral", "Recomendação", "Perguntas pontuadas")

	if err := f.SetSheetRow(CandidatesSheet, "A1", &head); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(head), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(CandidatesSheet, "A1", last, header); err != nil {
		return err
	}
	lastCol, _, err := excelize.SplitCellName(last)
	if err != nil {
		return err
	}
	if err := f.SetColWidth(CandidatesSheet, "A", lastCol, 18); err != nil {
		return err
	}

	for i, e := range entries {
		cand := e.Application.Candidate
		row := []any{cand.Name, cand.Email, cand.Phone, cand.Location(), submitted(e.Application.SubmittedAt)}
		for _, c := range cats {
			if s, ok := e.Analysis.Score(c); ok {
				row = append(row, s)
			} else {
				row = append(row, "")
			}
		}
		row = append(row, e.Analysis.Overall, e.Analysis.Recommendation.Text)
		if e.Custom.Answered > 0 {
			row = append(row, e.Custom.Average)
		} else {
			row = append(row, "")
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(CandidatesSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetPanes(CandidatesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func submitted(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
