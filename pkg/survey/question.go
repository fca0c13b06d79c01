package survey

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// QuestionType is the closed set of answer types a question can declare.
type QuestionType string

const (
	TypeText    QuestionType = "Text"
	TypeDate    QuestionType = "Date"
	TypeTime    QuestionType = "Time"
	TypeChoice  QuestionType = "Choice"
	TypeDecimal QuestionType = "Decimal"
	TypeInteger QuestionType = "Integer"
)

var questionTypes = []QuestionType{TypeText, TypeDate, TypeTime, TypeChoice, TypeDecimal, TypeInteger}

// ParseQuestionType maps a catalog type name onto QuestionType.
func ParseQuestionType(s string) (QuestionType, error) {
	for _, t := range questionTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownQuestionType, s)
}

// Question describes one field of a survey.
type Question struct {
	ID           int64
	Code         string
	Type         QuestionType
	Section      string
	SectionOrder int
	Order        int
	// Options restricts Choice answers to the listed codes. Empty means any value.
	Options []string
}

// Survey is the question catalog of one registry form.
type Survey struct {
	ID   int64
	Name string

	byID    map[int64]*Question
	byCode  map[string]*Question
	ordered []*Question
}

// New creates an empty survey catalog.
func New(id int64, name string) *Survey {
	return &Survey{
		ID:     id,
		Name:   name,
		byID:   make(map[int64]*Question),
		byCode: make(map[string]*Question),
	}
}

// foldCode produces the case-insensitive lookup key for a question code.
// A fresh Caser is used per call since casers carry state.
func foldCode(code string) string {
	return cases.Fold().String(strings.TrimSpace(code))
}

// AddQuestion registers q in the catalog. Codes are unique ignoring case.
func (s *Survey) AddQuestion(q *Question) error {
	if q == nil || strings.TrimSpace(q.Code) == "" {
		return ErrEmptyQuestionCode
	}
	if !slices.Contains(questionTypes, q.Type) {
		return fmt.Errorf("%w: %q for question %s", ErrUnknownQuestionType, q.Type, q.Code)
	}
	key := foldCode(q.Code)
	if _, ok := s.byCode[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateQuestionCode, q.Code)
	}
	if _, ok := s.byID[q.ID]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateQuestionID, q.ID)
	}

	s.byID[q.ID] = q
	s.byCode[key] = q
	s.ordered = append(s.ordered, q)
	slices.SortStableFunc(s.ordered, func(a, b *Question) int {
		if c := cmp.Compare(a.SectionOrder, b.SectionOrder); c != 0 {
			return c
		}
		return cmp.Compare(a.Order, b.Order)
	})
	return nil
}

// Question returns the question with the given id.
func (s *Survey) Question(id int64) (*Question, bool) {
	q, ok := s.byID[id]
	return q, ok
}

// QuestionWithCode looks a question up by code, ignoring case.
func (s *Survey) QuestionWithCode(code string) (*Question, bool) {
	q, ok := s.byCode[foldCode(code)]
	return q, ok
}

// OrderedQuestions returns the catalog ordered by section, then question order.
func (s *Survey) OrderedQuestions() []*Question {
	return slices.Clone(s.ordered)
}

func (s *Survey) Len() int {
	return len(s.ordered)
}
