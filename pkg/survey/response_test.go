package survey_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intersect/anzard/pkg/survey"
)

func newCatalog(t *testing.T) *survey.Survey {
	t.Helper()
	s := survey.New(1, "test")
	require.NoError(t, s.AddQuestion(&survey.Question{ID: 1, Code: "DOB", Type: survey.TypeDate, Order: 1}))
	require.NoError(t, s.AddQuestion(&survey.Question{ID: 2, Code: "Gest", Type: survey.TypeInteger, Order: 2}))
	require.NoError(t, s.AddQuestion(&survey.Question{ID: 3, Code: "Notes", Type: survey.TypeText, Order: 0, SectionOrder: 1}))
	return s
}

func TestSurveyCatalog(t *testing.T) {
	s := newCatalog(t)

	t.Run("codes are case-insensitive", func(t *testing.T) {
		q, ok := s.QuestionWithCode("gest")
		require.True(t, ok)
		assert.Equal(t, int64(2), q.ID)
	})

	t.Run("duplicate codes are rejected", func(t *testing.T) {
		err := s.AddQuestion(&survey.Question{ID: 9, Code: "GEST", Type: survey.TypeInteger})
		assert.ErrorIs(t, err, survey.ErrDuplicateQuestionCode)
	})

	t.Run("unknown types are rejected", func(t *testing.T) {
		err := s.AddQuestion(&survey.Question{ID: 10, Code: "X", Type: "Blob"})
		assert.ErrorIs(t, err, survey.ErrUnknownQuestionType)
	})

	t.Run("ordered by section then order", func(t *testing.T) {
		var codes []string
		for _, q := range s.OrderedQuestions() {
			codes = append(codes, q.Code)
		}
		assert.Equal(t, []string{"DOB", "Gest", "Notes"}, codes)
	})
}

func TestResponseAnswerStates(t *testing.T) {
	s := newCatalog(t)
	r := survey.NewResponse(s, "B1", 2012)

	require.NoError(t, r.SetAnswer("dob", "2012-02-03"))
	require.NoError(t, r.SetAnswer("Gest", "abc"))

	dob := r.AnswerToCode("DOB")
	assert.Equal(t, survey.StateWellFormed, dob.State())
	d, ok := dob.Date()
	require.True(t, ok)
	assert.Equal(t, 2012, d.Year())
	assert.Same(t, r, dob.Response())

	gest := r.AnswerToCode("GEST")
	assert.True(t, gest.IsMalformed())
	assert.Equal(t, "abc", gest.RawInput())
	_, ok = gest.Comparable()
	assert.False(t, ok)

	notes := r.AnswerTo(3)
	assert.True(t, notes.IsAbsent())
	assert.Equal(t, "Notes", notes.Code())

	t.Run("blank input clears", func(t *testing.T) {
		require.NoError(t, r.SetAnswer("Gest", ""))
		assert.True(t, r.AnswerToCode("Gest").IsAbsent())
		assert.Equal(t, 1, r.Len())
	})

	t.Run("unknown code", func(t *testing.T) {
		assert.ErrorIs(t, r.SetAnswer("nope", "1"), survey.ErrUnknownQuestion)
		assert.True(t, r.AnswerToCode("nope").IsAbsent())
	})
}

func TestBuildAnswersFromMap(t *testing.T) {
	s := newCatalog(t)
	r := survey.NewResponse(s, "B2", 2012)
	r.BuildAnswersFromMap(map[string]string{
		"BabyCode": "B2",
		"gest":     "31",
		"NOTES":    "hello",
		"DOB":      "",
	})

	answers := r.Answers()
	require.Len(t, answers, 2)
	assert.Equal(t, "Gest", answers[0].Code())
	assert.Equal(t, "Notes", answers[1].Code())

	v, ok := r.ComparableForCode("Gest")
	require.True(t, ok)
	assert.Equal(t, float64(31), v.Num())
}
