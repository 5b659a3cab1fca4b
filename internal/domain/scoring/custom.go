package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Embedded scores on author-defined questions range 1 (worst) to 4 (best).
const (
	MinOptionScore     = 1
	MaxOptionScore     = 4
	OptionsPerQuestion = 4
)

// Answer is a questionnaire answer split at the model boundary. Score is 0
// when the raw value carried no valid "|<1-4>" suffix.
type Answer struct {
	Text  string `json:"text"`
	Score int    `json:"score,omitempty"`
}

// Scored reports whether the answer carried an embedded score.
func (a Answer) Scored() bool { return a.Score >= MinOptionScore && a.Score <= MaxOptionScore }

// ParseAnswer splits "<text>|<score>" into its parts. A suffix that is not an
// integer in 1..4 is treated as part of the text.
func ParseAnswer(raw string) Answer {
	raw = strings.TrimSpace(raw)
	i := strings.LastIndexByte(raw, '|')
	if i < 0 {
		return Answer{Text: raw}
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw[i+1:]))
	if err != nil || n < MinOptionScore || n > MaxOptionScore {
		return Answer{Text: raw}
	}
	return Answer{Text: strings.TrimSpace(raw[:i]), Score: n}
}

// ScoredOption is one ranked option of an author-defined question.
type ScoredOption struct {
	Text  string `json:"text" validate:"required"`
	Score int    `json:"score" validate:"min=1,max=4"`
}

// ScoredQuestionDefinition is a four-option question whose options carry
// the scores 1..4, one each.
type ScoredQuestionDefinition struct {
	ID       string         `json:"id" validate:"required"`
	Question string         `json:"question" validate:"required"`
	Options  []ScoredOption `json:"options" validate:"len=4,dive"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateDefinition checks that def is usable: id and prompt set, exactly
// four options with non-blank text, and scores forming the set {1,2,3,4}.
func ValidateDefinition(def ScoredQuestionDefinition) error {
	def.Options = append([]ScoredOption(nil), def.Options...)
	for i := range def.Options {
		def.Options[i].Text = strings.TrimSpace(def.Options[i].Text)
	}
	if err := structValidator().Struct(def); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	seen := make(map[int]bool, OptionsPerQuestion)
	for _, opt := range def.Options {
		if seen[opt.Score] {
			return fmt.Errorf("%w: score %d used more than once", ErrInvalidDefinition, opt.Score)
		}
		seen[opt.Score] = true
	}
	return nil
}

// Ranked returns the options ordered worst to best.
func (d ScoredQuestionDefinition) Ranked() []ScoredOption {
	out := append([]ScoredOption(nil), d.Options...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	return out
}

// QuestionSet is the normalized custom_questions field of a job. Legacy jobs
// store a bare list of ids, which become Predefined.
type QuestionSet struct {
	Predefined []string `json:"predefined"`
	Scored     []string `json:"scored"`
}

// UnmarshalJSON accepts either a list of ids or {"predefined":[...],"scored":[...]}.
func (q *QuestionSet) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*q = QuestionSet{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '[':
		var ids []string
		if err := json.Unmarshal(data, &ids); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidQuestionSet, err)
		}
		q.Predefined = ids
		return nil
	case '{':
		var structured struct {
			Predefined []string `json:"predefined"`
			Scored     []string `json:"scored"`
		}
		if err := json.Unmarshal(data, &structured); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidQuestionSet, err)
		}
		q.Predefined = structured.Predefined
		q.Scored = structured.Scored
		return nil
	}
	return fmt.Errorf("%w: unexpected %q", ErrInvalidQuestionSet, data[0])
}

// MarshalJSON always writes the structured form.
func (q QuestionSet) MarshalJSON() ([]byte, error) {
	out := struct {
		Predefined []string `json:"predefined"`
		Scored     []string `json:"scored"`
	}{Predefined: q.Predefined, Scored: q.Scored}
	if out.Predefined == nil {
		out.Predefined = []string{}
	}
	if out.Scored == nil {
		out.Scored = []string{}
	}
	return json.Marshal(out)
}

// CustomQuestionScore is the result of one author-scored question.
type CustomQuestionScore struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer,omitempty"`
	Score      int    `json:"score"`
	Percentage int    `json:"percentage"`
	Answered   bool   `json:"answered"`
}

// CustomScoreSummary lists the author-scored questions in definition order.
type CustomScoreSummary struct {
	Items    []CustomQuestionScore `json:"items"`
	Answered int                   `json:"answered"`
	Average  int                   `json:"average"`
}

// ScoreCustomQuestions scores author-defined questions from the embedded
// answer scores. Answers without a valid embedded score are reported as
// unanswered.
func ScoreCustomQuestions(defs []ScoredQuestionDefinition, answers map[string]string) CustomScoreSummary {
	sum := CustomScoreSummary{Items: make([]CustomQuestionScore, 0, len(defs))}
	total := 0
	for _, def := range defs {
		item := CustomQuestionScore{QuestionID: def.ID, Question: def.Question}
		if raw, ok := answers[def.ID]; ok {
			a := ParseAnswer(raw)
			item.Answer = a.Text
			if a.Scored() {
				item.Score = a.Score
				item.Percentage = Percentage(a.Score)
				item.Answered = true
				sum.Answered++
				total += item.Percentage
			}
		}
		sum.Items = append(sum.Items, item)
	}
	if sum.Answered > 0 {
		sum.Average = int(math.Round(float64(total) / float64(sum.Answered)))
	}
	return sum
}

// Percentage converts an embedded 1..4 score to 0..100.
func Percentage(score int) int {
	return score * 100 / MaxOptionScore
}
