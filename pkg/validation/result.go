package validation

import (
	"strings"

	"github.com/google/uuid"
)

// QuestionResult holds the messages raised against one question.
type QuestionResult struct {
	QuestionID int64
	Code       string
	// Warnings are advisory rule failures.
	Warnings []string
	// FatalWarnings block submission: fatal rule failures and malformed answers.
	FatalWarnings []string
}

// Result is the outcome of validating one response. Only questions with at
// least one message appear in Questions, in catalog order.
type Result struct {
	ResponseID uuid.UUID
	RecordKey  string
	Questions  []QuestionResult

	byCode map[string]int
}

func newResult(id uuid.UUID, key string) *Result {
	return &Result{ResponseID: id, RecordKey: key, byCode: make(map[string]int)}
}

func (r *Result) add(q QuestionResult) {
	if len(q.Warnings) == 0 && len(q.FatalWarnings) == 0 {
		return
	}
	r.byCode[strings.ToLower(q.Code)] = len(r.Questions)
	r.Questions = append(r.Questions, q)
}

// HasWarnings reports whether any advisory warning was raised.
func (r *Result) HasWarnings() bool {
	return r.WarningCount() > 0
}

// HasFatalWarnings reports whether anything blocks submission.
func (r *Result) HasFatalWarnings() bool {
	return r.FatalWarningCount() > 0
}

// Valid reports a response with no messages at all.
func (r *Result) Valid() bool {
	return len(r.Questions) == 0
}

func (r *Result) WarningCount() int {
	n := 0
	for _, q := range r.Questions {
		n += len(q.Warnings)
	}
	return n
}

func (r *Result) FatalWarningCount() int {
	n := 0
	for _, q := range r.Questions {
		n += len(q.FatalWarnings)
	}
	return n
}

// WarningsFor returns the advisory warnings for a question code.
func (r *Result) WarningsFor(code string) []string {
	if q, ok := r.question(code); ok {
		return q.Warnings
	}
	return nil
}

// FatalWarningsFor returns the fatal warnings for a question code.
func (r *Result) FatalWarningsFor(code string) []string {
	if q, ok := r.question(code); ok {
		return q.FatalWarnings
	}
	return nil
}

func (r *Result) question(code string) (QuestionResult, bool) {
	i, ok := r.byCode[strings.ToLower(code)]
	if !ok {
		return QuestionResult{}, false
	}
	return r.Questions[i], true
}
