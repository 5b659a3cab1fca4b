package sheet

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/model"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/scoring"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/report"
)

func entries() []report.Entry {
	strong := map[string]string{"ingles": "Avançado / Fluente", "tempo_experiencia": "Mais de 5 anos"}
	weak := map[string]string{"comunicacao": "Regular"}
	return []report.Entry{
		{
			Application: model.Application{
				ID:          "a1",
				Candidate:   model.Candidate{Name: "Ana Souza", Email: "ana@example.com", City: "Recife", State: "PE"},
				SubmittedAt: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
			},
			Analysis: scoring.ComputeAnalysis(strong),
			Custom:   scoring.CustomScoreSummary{Answered: 1, Average: 75},
		},
		{
			Application: model.Application{ID: "a2", Candidate: model.Candidate{Name: "João"}},
			Analysis:    scoring.ComputeAnalysis(weak),
		},
	}
}

func TestWriteRoster(t *testing.T) {
	job := model.Job{ID: "j1", Title: "Analista de Dados", Company: "Acme"}
	var buf bytes.Buffer
	require.NoError(t, WriteRoster(&buf, job, entries(), time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, CandidatesSheet}, f.GetSheetList())

	title, err := f.GetCellValue(SummarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Analista de Dados", title)
	count, err := f.GetCellValue(SummarySheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, "2", count)

	rows, err := f.GetRows(CandidatesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	head := rows[0]
	assert.Equal(t, "Nome", head[0])
	assert.Equal(t, string(scoring.CategoryTecnico), head[5])
	assert.Equal(t, "Perguntas pontuadas", head[len(head)-1])

	ana := rows[1]
	assert.Equal(t, "Ana Souza", ana[0])
	assert.Equal(t, "Recife - PE", ana[3])
	assert.Equal(t, "2026-10-01", ana[4])
	overallCol := len(candidateColumns) + len(scoring.Categories())
	assert.Equal(t, "100", ana[overallCol])
	assert.Equal(t, scoring.LevelHighlyQualified.String(), ana[overallCol+1])
	assert.Equal(t, "75", ana[overallCol+2])

	joao := rows[2]
	assert.Equal(t, "João", joao[0])
	assert.Equal(t, "25", joao[overallCol])
}

func TestWriteRosterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRoster(&buf, model.Job{Title: "Vaga"}, nil, time.Now()))
	assert.Positive(t, buf.Len())
}

func TestFilename(t *testing.T) {
	d := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Candidatos_Analista_de_Dados_2026-10-18.xlsx", Filename("Analista de Dados", d))
	assert.Equal(t, "Candidatos_Vaga_2026-10-18.xlsx", Filename("", d))
}

func TestSummaryMeanSkipsInsufficientData(t *testing.T) {
	list := []report.Entry{
		{Application: model.Application{ID: "a1"}, Analysis: scoring.ComputeAnalysis(map[string]string{"comunicacao": "Excelente"})},
		{Application: model.Application{ID: "a2"}, Analysis: scoring.ComputeAnalysis(map[string]string{"comunicacao": "Regular"})},
		{Application: model.Application{ID: "a3"}, Analysis: scoring.ComputeAnalysis(map[string]string{})},
	}
	require.Equal(t, scoring.LevelInsufficientData, list[2].Analysis.Recommendation.Level)
	want := float64(list[0].Analysis.Overall+list[1].Analysis.Overall) / 2

	var buf bytes.Buffer
	require.NoError(t, WriteRoster(&buf, model.Job{Title: "Vaga"}, list, time.Now()))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	var mean string
	for _, r := range rows {
		if len(r) > 1 && r[0] == "Média geral" {
			mean = r[1]
		}
	}
	assert.Equal(t, fmt.Sprintf("%.1f", want), mean)
	assert.NotEqual(t, fmt.Sprintf("%.1f", want*2/3), mean)
}
