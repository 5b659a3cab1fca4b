// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/scoring"
)

// Job is a posting owned by a company. Questions lists the predefined and
// author-scored question ids the application form asked.
type Job struct {
	ID              string                             `json:"id"`
	Title           string                             `json:"title"`
	Company         string                             `json:"company"`
	Location        string                             `json:"location,omitempty"`
	Questions       scoring.QuestionSet                `json:"custom_questions"`
	ScoredQuestions []scoring.ScoredQuestionDefinition `json:"scored_questions"`
	CreatedAt       time.Time                          `json:"created_at"`
}

// ScoredDefinitions returns the author-scored definitions the job actually
// asks, in the order of Questions.Scored. Definitions not listed are ignored.
func (j Job) ScoredDefinitions() []scoring.ScoredQuestionDefinition {
	byID := make(map[string]scoring.ScoredQuestionDefinition, len(j.ScoredQuestions))
	for _, d := range j.ScoredQuestions {
		byID[d.ID] = d
	}
	if len(j.Questions.Scored) == 0 {
		return j.ScoredQuestions
	}
	out := make([]scoring.ScoredQuestionDefinition, 0, len(j.Questions.Scored))
	for _, id := range j.Questions.Scored {
		if d, ok := byID[id]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Candidate holds the personal data shown on report cards. Every field
// except Name is optional.
type Candidate struct {
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	LinkedIn   string `json:"linkedin,omitempty"`
	Education  string `json:"education,omitempty"`
	Experience string `json:"experience,omitempty"`
	ResumePath string `json:"resume_path,omitempty"`
}

// Location joins city and state for display.
func (c Candidate) Location() string {
	switch {
	case c.City != "" && c.State != "":
		return c.City + " - " + c.State
	case c.City != "":
		return c.City
	default:
		return c.State
	}
}

// Application is one candidate's submission to a job. Answers maps question
// id to the raw answer text and is never nil once loaded.
type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"job_id"`
	Candidate   Candidate         `json:"candidate"`
	Answers     map[string]string `json:"answers"`
	Status      string            `json:"status,omitempty"`
	SubmittedAt time.Time         `json:"submitted_at"`
}
