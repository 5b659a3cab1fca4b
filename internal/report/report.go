// Package report composes candidate reports into paginated PDF documents.
package report

import (
	"errors"
	"fmt"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/model"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/scoring"
)

// Mode selects how candidates are laid out.
type Mode string

// Export modes.
const (
	// ModeSingle is one candidate over as many pages as needed.
	ModeSingle Mode = "single"
	// ModeRoster is the compact list, two candidates per page.
	ModeRoster Mode = "roster"
	// ModeBatch is the full report of many candidates, packed greedily.
	ModeBatch Mode = "batch"
)

// RosterPerPage is the fixed slot count of ModeRoster pages.
const RosterPerPage = 2

// ParseMode converts a string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeSingle, ModeRoster, ModeBatch:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, s)
}

// Entry is one candidate with its computed scores.
type Entry struct {
	Application model.Application
	Analysis    scoring.AnalysisResult
	Custom      scoring.CustomScoreSummary
}

// Request describes one export.
type Request struct {
	Mode    Mode
	Job     model.Job
	Entries []Entry
}

func (r Request) validate() error {
	switch r.Mode {
	case ModeSingle, ModeRoster, ModeBatch:
	default:
		return fmt.Errorf("unknown mode %q", r.Mode)
	}
	if len(r.Entries) == 0 {
		return errors.New("no candidates")
	}
	if r.Mode == ModeSingle && len(r.Entries) != 1 {
		return fmt.Errorf("single mode takes one candidate, got %d", len(r.Entries))
	}
	return nil
}

// Document is a finished export. It is only ever returned complete.
type Document struct {
	Filename string `json:"filename"`
	Mode     Mode   `json:"mode"`
	Pages    int    `json:"pages"`
	// Fallback is set when the document was sliced from one tall raster.
	Fallback bool `json:"fallback"`
	// Overflow counts pages holding a section taller than the content area.
	Overflow int    `json:"overflow"`
	PDF      []byte `json:"-"`
}
