package survey

import "errors"

var (
	// ErrUnknownQuestionType is returned when a question type is outside the closed set.
	ErrUnknownQuestionType = errors.New("unknown question type")

	// ErrDuplicateQuestionCode is returned when two questions in one survey share a code.
	ErrDuplicateQuestionCode = errors.New("duplicate question code")

	// ErrDuplicateQuestionID is returned when two questions in one survey share an id.
	ErrDuplicateQuestionID = errors.New("duplicate question id")

	// ErrUnknownQuestion is returned when a code or id does not resolve to a question.
	ErrUnknownQuestion = errors.New("unknown question")

	ErrEmptyQuestionCode = errors.New("question code is required")
)
