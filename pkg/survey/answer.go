package survey

import "time"

// State is the three-valued presence of an answer.
type State uint8

const (
	StateAbsent State = iota
	StateMalformed
	StateWellFormed
)

func (s State) String() string {
	switch s {
	case StateMalformed:
		return "malformed"
	case StateWellFormed:
		return "well-formed"
	default:
		return "absent"
	}
}

// Answer is one question's answer within a Response. Absent answers are
// ordinary values too, so callers never need a nil check.
type Answer struct {
	question *Question
	response *Response
	state    State
	raw      string
	value    Value
}

// NewAnswer parses raw for q. Blank input yields an absent answer.
func NewAnswer(q *Question, raw string) Answer {
	if q == nil {
		return Answer{}
	}
	a := Answer{question: q, raw: raw}
	if isBlank(raw) {
		a.raw = ""
		return a
	}
	if v, ok := ParseValue(q, raw); ok {
		a.state = StateWellFormed
		a.value = v
		return a
	}
	a.state = StateMalformed
	return a
}

// AbsentAnswer is the answer to q when nothing was entered.
func AbsentAnswer(q *Question, r *Response) Answer {
	return Answer{question: q, response: r}
}

func (a Answer) Question() *Question { return a.question }
func (a Answer) Response() *Response { return a.response }
func (a Answer) State() State        { return a.state }
func (a Answer) IsAbsent() bool      { return a.state == StateAbsent }
func (a Answer) IsMalformed() bool   { return a.state == StateMalformed }
func (a Answer) IsWellFormed() bool  { return a.state == StateWellFormed }
func (a Answer) RawInput() string    { return a.raw }
func (a Answer) HasRawInput() bool   { return a.state != StateAbsent }

// Code returns the question code, or "" for an answer detached from the catalog.
func (a Answer) Code() string {
	if a.question == nil {
		return ""
	}
	return a.question.Code
}

// Comparable returns the typed value; ok is false unless the answer is well-formed.
func (a Answer) Comparable() (Value, bool) {
	if a.state != StateWellFormed {
		return Value{}, false
	}
	return a.value, true
}

// Date returns the answer as a calendar date when it holds one.
func (a Answer) Date() (time.Time, bool) {
	if a.state != StateWellFormed || a.value.kind != KindDate {
		return time.Time{}, false
	}
	return a.value.t, true
}

// WithOffset is the comparable value shifted by n (see Value.AddOffset).
func (a Answer) WithOffset(n float64) (Value, bool) {
	v, ok := a.Comparable()
	if !ok {
		return Value{}, false
	}
	return v.AddOffset(n), true
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
