// Package repository reads jobs and applications from the relational store.
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/model"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/scoring"
	"github.com/Recrutamentebr/recrutamente-sub000/pkg/metrics"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store provides read access to jobs and their applications.
type Store interface {
	// GetJob returns a job. Returns ErrNotFound if the job is unknown.
	GetJob(ctx context.Context, id string) (model.Job, error)

	// GetApplication returns an application. Returns ErrNotFound if unknown.
	GetApplication(ctx context.Context, id string) (model.Application, error)

	// ListApplications returns the applications of a job in submission order.
	ListApplications(ctx context.Context, jobID string) ([]model.Application, error)

	// Close releases the underlying connections.
	Close() error
}

// Open connects to the store selected by driver.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (Store, error) {
	switch driver {
	case DriverPostgres:
		return NewPostgres(ctx, dsn, opts...)
	case DriverSQLite:
		s, err := NewSQLite(ctx, dsn, opts...)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStore, driver)
}

// observe starts timing one query; the returned func records it together
// with the query's final error.
func observe(driver, query string) func(*error) {
	start := time.Now()
	return func(errp *error) {
		metrics.RecordStoreQuery(driver, query, float64(time.Since(start).Milliseconds()))
		if errp != nil && *errp != nil && !errors.Is(*errp, ErrNotFound) {
			metrics.RecordStoreError(driver, query)
		}
	}
}

// decodeAnswers treats a missing answers document as no answers. Values
// that are not strings (null included) are dropped; only a document that is not a JSON
// object at all is ErrCorrupt.
func decodeAnswers(raw []byte) (map[string]string, error) {
	answers := map[string]string{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return answers, nil
	}
	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("%w: answers: %w", ErrCorrupt, err)
	}
	skipped := 0
	for id, v := range values {
		var text string
		if bytes.Equal(v, []byte("null")) || json.Unmarshal(v, &text) != nil {
			skipped++
			continue
		}
		answers[id] = text
	}
	if skipped > 0 {
		metrics.RecordSkippedAnswers(skipped)
	}
	return answers, nil
}

func decodeQuestions(rawSet, rawScored []byte) (scoring.QuestionSet, []scoring.ScoredQuestionDefinition, error) {
	var set scoring.QuestionSet
	if len(bytes.TrimSpace(rawSet)) > 0 {
		if err := json.Unmarshal(rawSet, &set); err != nil {
			return set, nil, fmt.Errorf("%w: custom_questions: %w", ErrCorrupt, err)
		}
	}
	var scored []scoring.ScoredQuestionDefinition
	if raw := bytes.TrimSpace(rawScored); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		if err := json.Unmarshal(raw, &scored); err != nil {
			return set, nil, fmt.Errorf("%w: scored_questions: %w", ErrCorrupt, err)
		}
	}
	return set, scored, nil
}

func encodeQuestions(job model.Job) (set, scored []byte, err error) {
	if set, err = json.Marshal(job.Questions); err != nil {
		return nil, nil, err
	}
	defs := job.ScoredQuestions
	if defs == nil {
		defs = []scoring.ScoredQuestionDefinition{}
	}
	if scored, err = json.Marshal(defs); err != nil {
		return nil, nil, err
	}
	return set, scored, nil
}
