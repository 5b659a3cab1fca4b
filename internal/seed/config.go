// Package seed generates sample jobs and applications for local stores.
package seed

import (
	"time"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/model"
)

// Config holds configuration for a seed run.
type Config struct {
	Jobs               int     // Number of jobs to create
	ApplicationsPerJob int     // Applications created for every job
	Workers            int     // Number of concurrent generators
	SkipRatio          float64 // Share of taxonomy questions left unanswered
	UnknownRatio       float64 // Share of answers outside the answer table
	OutputFile         string  // Optional JSON dump of the generated data
}

// DefaultConfig returns a small data set suitable for local development.
func DefaultConfig() Config {
	return Config{
		Jobs:               3,
		ApplicationsPerJob: 5,
		Workers:            4,
		SkipRatio:          0.2,
		UnknownRatio:       0.05,
	}
}

// Dataset is everything one run generated.
type Dataset struct {
	Jobs         []model.Job         `json:"jobs"`
	Applications []model.Application `json:"applications"`
}

// Stats holds run statistics.
type Stats struct {
	JobsSaved         int
	ApplicationsSaved int
	AnswersGenerated  int
	UnknownAnswers    int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
