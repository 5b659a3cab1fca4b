// Package scoring turns questionnaire answers into category scores, an
// overall score and a recommendation.
package scoring

import (
	"context"

	"github.com/Recrutamentebr/recrutamente-sub000/pkg/metrics"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMetrics toggles Prometheus instrumentation (enabled by default).
func WithMetrics(enabled bool) Option {
	return func(e *Engine) {
		e.metrics = enabled
	}
}

// WithUnknownAnswerHook registers a callback invoked for every answer that
// fell through to UnknownAnswerDefaultScore.
func WithUnknownAnswerHook(fn func(ctx context.Context, answer string)) Option {
	return func(e *Engine) {
		e.onUnknown = fn
	}
}

// Scorer produces analyses for questionnaires.
type Scorer interface {
	// Analyze runs the taxonomy analysis of answers.
	Analyze(ctx context.Context, answers map[string]string) AnalysisResult
	// ScoreCustom runs the author-scored track.
	ScoreCustom(ctx context.Context, defs []ScoredQuestionDefinition, answers map[string]string) CustomScoreSummary
}

// Engine implements Scorer on top of the package functions, adding
// instrumentation. Results are identical to ComputeAnalysis.
type Engine struct {
	metrics   bool
	onUnknown func(ctx context.Context, answer string)
}

// NewEngine creates a scoring engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{metrics: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze computes the analysis of answers.
func (e *Engine) Analyze(ctx context.Context, answers map[string]string) AnalysisResult {
	score := func(answer string) int {
		s, path := Resolve(answer)
		if e.metrics {
			metrics.RecordAnswerScored(string(path))
			if path == PathDefault {
				metrics.RecordUnknownAnswer()
			}
		}
		if path == PathDefault && e.onUnknown != nil {
			e.onUnknown(ctx, answer)
		}
		return s
	}
	var omitted func(Category)
	if e.metrics {
		omitted = func(c Category) { metrics.RecordCategoryOmitted(string(c)) }
	}

	res := compute(answers, score, omitted)
	if e.metrics {
		metrics.RecordAnalysis(res.Overall)
	}
	return res
}

// ScoreCustom scores the author-defined questions.
func (e *Engine) ScoreCustom(_ context.Context, defs []ScoredQuestionDefinition, answers map[string]string) CustomScoreSummary {
	return ScoreCustomQuestions(defs, answers)
}
