package api

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/adapters/export/sheet"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/report"
)

// ReportDependencies defines the export operations behind the API.
type ReportDependencies interface {
	ApplicationReport(ctx context.Context, applicationID string) (*report.Document, error)
	JobReport(ctx context.Context, jobID string, mode report.Mode) (*report.Document, error)
	JobSpreadsheet(ctx context.Context, jobID string, w io.Writer) (string, error)
}

// ReportHandler handles document downloads.
type ReportHandler struct {
	deps ReportDependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps ReportDependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// HandleApplicationReport handles GET /applications/{id}/report.pdf requests.
func (h *ReportHandler) HandleApplicationReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.application_report"
	id := r.PathValue("id")
	if id == "" {
		writeKindError(w, NewKind(op, ErrBadRequest))
		return
	}
	doc, err := h.deps.ApplicationReport(r.Context(), id)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	writeDocument(w, doc)
}

// jobReport returns the handler of GET /jobs/{id}/<mode>.pdf.
func (h *ReportHandler) jobReport(mode report.Mode) http.HandlerFunc {
	op := "api.job_report." + string(mode)
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			writeKindError(w, NewKind(op, ErrBadRequest))
			return
		}
		doc, err := h.deps.JobReport(r.Context(), id, mode)
		if err != nil {
			writeKindError(w, Wrap(op, err))
			return
		}
		writeDocument(w, doc)
	}
}

// HandleJobSpreadsheet handles GET /jobs/{id}/roster.xlsx requests.
func (h *ReportHandler) HandleJobSpreadsheet(w http.ResponseWriter, r *http.Request) {
	const op = "api.job_spreadsheet"
	id := r.PathValue("id")
	if id == "" {
		writeKindError(w, NewKind(op, ErrBadRequest))
		return
	}
	var buf bytes.Buffer
	name, err := h.deps.JobSpreadsheet(r.Context(), id, &buf)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	writeAttachment(w, sheet.ContentType, name, buf.Bytes())
}

func writeDocument(w http.ResponseWriter, doc *report.Document) {
	w.Header().Set("X-Report-Pages", strconv.Itoa(doc.Pages))
	if doc.Fallback {
		w.Header().Set("X-Report-Fallback", "true")
	}
	writeAttachment(w, "application/pdf", doc.Filename, doc.PDF)
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
