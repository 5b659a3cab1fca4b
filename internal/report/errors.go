package report

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned for requests that cannot be composed.
	ErrInvalidRequest = errors.New("invalid export request")
	// ErrRenderFailure is the kind of every rendering or assembly failure.
	ErrRenderFailure = errors.New("could not generate report")
	// ErrPageCount is returned when the assembled PDF does not have the expected pages.
	ErrPageCount = errors.New("unexpected page count")
)

// ExportError is the single error an export reports. Stage names the step
// that failed.
type ExportError struct {
	Mode  Mode
	Stage string
	Kind  error
	Err   error
}

func (e *ExportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s export: %s: %v", e.Mode, e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s export: %s: %v: %v", e.Mode, e.Stage, e.Kind, e.Err)
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *ExportError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
