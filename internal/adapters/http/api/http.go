// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	service "github.com/Recrutamentebr/recrutamente-sub000/internal/app"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/scoring"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/report"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	AnalysisDependencies
	ReportDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	analysisHandler *AnalysisHandler
	reportHandler   *ReportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		analysisHandler: NewAnalysisHandler(deps),
		reportHandler:   NewReportHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /analysis", MetricsMiddleware(s.analysisHandler.HandleAnalyze, "analysis"))
	mux.HandleFunc("GET /applications/{id}/analysis", MetricsMiddleware(s.analysisHandler.HandleApplicationAnalysis, "application_analysis"))
	mux.HandleFunc("POST /questions/validate", MetricsMiddleware(s.analysisHandler.HandleValidateQuestion, "validate_question"))

	mux.HandleFunc("GET /applications/{id}/report.pdf", MetricsMiddleware(s.reportHandler.HandleApplicationReport, "application_report"))
	mux.HandleFunc("GET /jobs/{id}/roster.pdf", MetricsMiddleware(s.reportHandler.jobReport(report.ModeRoster), "roster_report"))
	mux.HandleFunc("GET /jobs/{id}/batch.pdf", MetricsMiddleware(s.reportHandler.jobReport(report.ModeBatch), "batch_report"))
	mux.HandleFunc("GET /jobs/{id}/roster.xlsx", MetricsMiddleware(s.reportHandler.HandleJobSpreadsheet, "roster_sheet"))
}

// Compile-time check that the service satisfies the handler contracts.
var _ Dependencies = (*service.Service)(nil)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // validators are safe for concurrent use

// decodeBody reads one JSON document from r into v.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	return nil
}

// decodeJSON reads one JSON document from r into v and validates it.
func decodeJSON(r *http.Request, v any) error {
	if err := decodeBody(r, v); err != nil {
		return err
	}
	return validate.Struct(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeKindError writes err with the status of its kind.
func writeKindError(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	if status == http.StatusInternalServerError {
		var ee *report.ExportError
		if errors.As(err, &ee) {
			// the export cause stays in the logs
			writeError(w, status, code, report.ErrRenderFailure)
			return
		}
	}
	writeError(w, status, code, err)
}

// answersRequest mirrors the OpenAPI schema for POST /analysis.
type answersRequest struct {
	Answers         map[string]string                  `json:"answers" validate:"required"`
	ScoredQuestions []scoring.ScoredQuestionDefinition `json:"scored_questions" validate:"omitempty,dive"`
}
