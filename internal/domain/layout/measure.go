package layout

import (
	"context"
	"fmt"
	"math"
	"unicode/utf8"
)

// Block is a section before measurement. HTML is used by real renderers,
// Text and Rows by estimators.
type Block struct {
	ID   string
	Kind Kind
	HTML string
	Text string
	Rows int
}

// SectionMeasurer turns blocks into measured sections, preserving order.
// Implementations return ErrMeasureUnavailable when they cannot measure.
type SectionMeasurer interface {
	Measure(ctx context.Context, blocks []Block, width float64) ([]Section, error)
}

// Estimator approximates heights from kind, text length and row count.
// Results depend only on input.
type Estimator struct {
	base       map[Kind]float64
	rowHeight  map[Kind]float64
	lineHeight float64
	charWidth  float64
	padding    float64
}

// EstimatorOption configures an Estimator.
type EstimatorOption func(*Estimator)

// WithKindHeight overrides the base and per-row height of a kind.
func WithKindHeight(k Kind, base, perRow float64) EstimatorOption {
	return func(e *Estimator) {
		e.base[k] = base
		e.rowHeight[k] = perRow
	}
}

// WithTextMetrics overrides line height and average glyph width.
func WithTextMetrics(lineHeight, charWidth float64) EstimatorOption {
	return func(e *Estimator) {
		if lineHeight > 0 {
			e.lineHeight = lineHeight
		}
		if charWidth > 0 {
			e.charWidth = charWidth
		}
	}
}

// NewEstimator creates an estimator tuned for the default report stylesheet.
func NewEstimator(opts ...EstimatorOption) *Estimator {
	e := &Estimator{
		base: map[Kind]float64{
			KindCard:           150,
			KindChart:          96,
			KindRecommendation: 110,
			KindQuestions:      64,
			KindRoster:         500,
			KindFiller:         0,
		},
		rowHeight: map[Kind]float64{
			KindChart:     30,
			KindQuestions: 46,
		},
		lineHeight: 18,
		charWidth:  7,
		padding:    48,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Measure estimates every block.
func (e *Estimator) Measure(ctx context.Context, blocks []Block, width float64) ([]Section, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("measure: %w", err)
	}
	out := make([]Section, len(blocks))
	for i, b := range blocks {
		out[i] = Section{ID: b.ID, Kind: b.Kind, Height: e.estimate(b, width)}
	}
	return out, nil
}

func (e *Estimator) estimate(b Block, width float64) float64 {
	h := e.base[b.Kind] + float64(b.Rows)*e.rowHeight[b.Kind]
	if b.Text == "" || b.Kind == KindRoster || b.Kind == KindFiller {
		return h
	}
	perLine := math.Max(1, math.Floor((width-2*e.padding)/e.charWidth))
	lines := math.Ceil(float64(utf8.RuneCountInString(b.Text)) / perLine)
	return h + lines*e.lineHeight
}
