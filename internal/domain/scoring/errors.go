package scoring

import "errors"

var (
	// ErrInvalidDefinition is returned when a scored question definition is not usable.
	ErrInvalidDefinition = errors.New("invalid scored question definition")
	// ErrInvalidQuestionSet is returned when custom_questions has neither known shape.
	ErrInvalidQuestionSet = errors.New("invalid question set")
)
