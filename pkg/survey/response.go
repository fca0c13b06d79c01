package survey

import (
	"fmt"

	"github.com/google/uuid"
)

// Response is one survey submission: a record key plus the answers entered
// for it. It is not safe for concurrent mutation.
type Response struct {
	ID                 uuid.UUID
	RecordKey          string
	Survey             *Survey
	YearOfRegistration int

	answers map[int64]Answer
}

// NewResponse creates an empty response for survey s.
func NewResponse(s *Survey, recordKey string, yearOfRegistration int) *Response {
	return &Response{
		ID:                 uuid.New(),
		RecordKey:          recordKey,
		Survey:             s,
		YearOfRegistration: yearOfRegistration,
		answers:            make(map[int64]Answer),
	}
}

// SetAnswer records raw input for the question with the given code.
// Blank input clears the answer.
func (r *Response) SetAnswer(code, raw string) error {
	q, ok := r.Survey.QuestionWithCode(code)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, code)
	}
	r.SetAnswerFor(q, raw)
	return nil
}

// SetAnswerFor records raw input for q. Blank input clears the answer.
func (r *Response) SetAnswerFor(q *Question, raw string) {
	a := NewAnswer(q, raw)
	if a.IsAbsent() {
		delete(r.answers, q.ID)
		return
	}
	a.response = r
	r.answers[q.ID] = a
}

// ClearAnswer removes the answer to code, if any.
func (r *Response) ClearAnswer(code string) {
	if q, ok := r.Survey.QuestionWithCode(code); ok {
		delete(r.answers, q.ID)
	}
}

// BuildAnswersFromMap loads a flat record keyed by question code. Columns that
// do not name a catalog question are ignored.
func (r *Response) BuildAnswersFromMap(row map[string]string) {
	for code, raw := range row {
		q, ok := r.Survey.QuestionWithCode(code)
		if !ok {
			continue
		}
		r.SetAnswerFor(q, raw)
	}
}

// AnswerTo returns the answer to the question with id. The result is absent
// (never nil) when nothing was entered.
func (r *Response) AnswerTo(id int64) Answer {
	if a, ok := r.answers[id]; ok {
		return a
	}
	q, _ := r.Survey.Question(id)
	return AbsentAnswer(q, r)
}

// AnswerToCode is AnswerTo keyed by question code.
func (r *Response) AnswerToCode(code string) Answer {
	q, ok := r.Survey.QuestionWithCode(code)
	if !ok {
		return AbsentAnswer(nil, r)
	}
	return r.AnswerTo(q.ID)
}

// AnswerToQuestion is AnswerTo for an already-resolved question.
func (r *Response) AnswerToQuestion(q *Question) Answer {
	if q == nil {
		return AbsentAnswer(nil, r)
	}
	if a, ok := r.answers[q.ID]; ok {
		return a
	}
	return AbsentAnswer(q, r)
}

// ComparableForCode returns the typed answer to code; ok is false when the
// answer is absent or malformed.
func (r *Response) ComparableForCode(code string) (Value, bool) {
	return r.AnswerToCode(code).Comparable()
}

// Answers returns every entered answer (well-formed or malformed) in catalog order.
func (r *Response) Answers() []Answer {
	out := make([]Answer, 0, len(r.answers))
	for _, q := range r.Survey.ordered {
		if a, ok := r.answers[q.ID]; ok {
			out = append(out, a)
		}
	}
	return out
}

func (r *Response) Len() int {
	return len(r.answers)
}
