package api

import (
	"errors"
	"net/http"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/adapters/repository"
	service "github.com/Recrutamentebr/recrutamente-sub000/internal/app"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/dedupe"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/scoring"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/report"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("export already in progress")
	ErrBackpressure = errors.New("backpressure")
	ErrInvalid      = errors.New("unprocessable")
	ErrInternal     = errors.New("internal error")
)

// KindError tags an error with the handler operation and an API kind.
type KindError struct {
	Op   string
	Kind error
	Err  error
}

func (e *KindError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *KindError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &KindError{Op: op, Kind: kind}
}

// WrapKind tags err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &KindError{Op: op, Kind: kind, Err: err}
}

// Wrap classifies a service error and tags it with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ke *KindError
	if errors.As(err, &ke) {
		return err
	}
	return WrapKind(op, classify(err), err)
}

func classify(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrNoApplications):
		return ErrNotFound
	case errors.Is(err, dedupe.ErrInFlight):
		return ErrConflict
	case errors.Is(err, service.ErrBusy), errors.Is(err, dedupe.ErrCapacity):
		return ErrBackpressure
	case errors.Is(err, report.ErrInvalidRequest):
		return ErrBadRequest
	case errors.Is(err, scoring.ErrInvalidDefinition):
		return ErrInvalid
	}
	return ErrInternal
}

// statusOf maps an error kind to its HTTP status and response code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "in_progress"
	case errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, ErrInvalid):
		return http.StatusUnprocessableEntity, "invalid"
	}
	return http.StatusInternalServerError, "internal_error"
}
