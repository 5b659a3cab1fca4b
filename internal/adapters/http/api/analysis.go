package api

import (
	"context"
	"net/http"

	service "github.com/Recrutamentebr/recrutamente-sub000/internal/app"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/scoring"
)

// AnalysisDependencies defines the scoring operations behind the API.
type AnalysisDependencies interface {
	Analyze(ctx context.Context, answers map[string]string, defs []scoring.ScoredQuestionDefinition) service.Analysis
	ApplicationAnalysis(ctx context.Context, applicationID string) (service.Analysis, error)
	ValidateQuestion(ctx context.Context, def scoring.ScoredQuestionDefinition) error
}

// AnalysisHandler handles scoring requests.
type AnalysisHandler struct {
	deps AnalysisDependencies
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(deps AnalysisDependencies) *AnalysisHandler {
	return &AnalysisHandler{deps: deps}
}

// HandleAnalyze handles POST /analysis requests.
func (h *AnalysisHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	var req answersRequest
	if err := decodeJSON(r, &req); err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Analyze(r.Context(), req.Answers, req.ScoredQuestions))
}

// HandleApplicationAnalysis handles GET /applications/{id}/analysis requests.
func (h *AnalysisHandler) HandleApplicationAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "api.application_analysis"
	id := r.PathValue("id")
	if id == "" {
		writeKindError(w, NewKind(op, ErrBadRequest))
		return
	}
	a, err := h.deps.ApplicationAnalysis(r.Context(), id)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type validationResponse struct {
	Valid  bool                   `json:"valid"`
	Ranked []scoring.ScoredOption `json:"ranked,omitempty"`
}

// HandleValidateQuestion handles POST /questions/validate requests. The body
// is decoded without struct validation so that rule violations surface as
// 422 rather than 400.
func (h *AnalysisHandler) HandleValidateQuestion(w http.ResponseWriter, r *http.Request) {
	const op = "api.validate_question"
	var def scoring.ScoredQuestionDefinition
	if err := decodeBody(r, &def); err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.ValidateQuestion(r.Context(), def); err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, validationResponse{Valid: true, Ranked: def.Ranked()})
}
