package cqv_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/intersect/anzard/pkg/cqv"
	"github.com/intersect/anzard/pkg/survey"
)

// fixture wires a catalog, rule store, evaluator and one response together.
type fixture struct {
	t    *testing.T
	s    *survey.Survey
	repo *cqv.Repository
	ev   *cqv.Evaluator
	resp *survey.Response
}

// newFixture builds a catalog from "CODE:Type" definitions, e.g. "Gest:Integer".
// Choice options follow a second colon, comma separated: "PR_CLIN:Choice:y,n,u".
func newFixture(t *testing.T, reg *cqv.Registry, defs ...string) *fixture {
	t.Helper()
	s := survey.New(1, "test")
	for i, def := range defs {
		parts := strings.Split(def, ":")
		require.GreaterOrEqual(t, len(parts), 2, def)
		q := &survey.Question{ID: int64(i + 1), Code: parts[0], Type: survey.QuestionType(parts[1]), Order: i}
		if len(parts) > 2 {
			q.Options = strings.Split(parts[2], ",")
		}
		require.NoError(t, s.AddQuestion(q))
	}
	repo := cqv.NewRepository(s)
	return &fixture{
		t:    t,
		s:    s,
		repo: repo,
		ev:   cqv.NewEvaluator(reg, repo),
		resp: survey.NewResponse(s, "rec-1", 2012),
	}
}

func (f *fixture) id(code string) int64 {
	f.t.Helper()
	q, ok := f.s.QuestionWithCode(code)
	require.True(f.t, ok, code)
	return q.ID
}

func (f *fixture) ids(codes ...string) []int64 {
	out := make([]int64, len(codes))
	for i, c := range codes {
		out[i] = f.id(c)
	}
	return out
}

func (f *fixture) add(rule *cqv.Rule) *cqv.Rule {
	f.t.Helper()
	r, err := f.repo.Add(rule)
	require.NoError(f.t, err)
	return r
}

func (f *fixture) set(answers map[string]string) {
	f.t.Helper()
	for code, raw := range answers {
		require.NoError(f.t, f.resp.SetAnswer(code, raw))
	}
}

// fresh discards all answers.
func (f *fixture) fresh() {
	f.resp = survey.NewResponse(f.s, "rec-1", 2012)
}

func (f *fixture) check(code string) []string {
	f.t.Helper()
	return f.ev.Check(f.resp.AnswerToCode(code))
}

// recoverError runs fn and returns the error it panicked with.
func recoverError(t *testing.T, fn func()) (err error) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		e, ok := r.(error)
		require.True(t, ok, "panic value is not an error: %v", r)
		err = e
	}()
	fn()
	return nil
}
