package cqv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intersect/anzard/pkg/survey"
)

// spyRegistry records which kinds reached their checker.
func spyRegistry(called map[Kind]bool) *Registry {
	reg := &Registry{checkers: make(map[Kind]Checker)}
	for _, k := range Kinds() {
		reg.checkers[k] = func(Input) bool {
			called[k] = true
			return true
		}
	}
	return reg
}

func TestCheckOneAnswerAbsentPolicy(t *testing.T) {
	s := survey.New(1, "policy")
	require.NoError(t, s.AddQuestion(&survey.Question{ID: 1, Code: "A", Type: survey.TypeInteger}))
	require.NoError(t, s.AddQuestion(&survey.Question{ID: 2, Code: "B", Type: survey.TypeInteger}))
	resp := survey.NewResponse(s, "r", 2012)
	require.NoError(t, resp.SetAnswer("B", "1"))
	q, _ := s.Question(1)

	called := map[Kind]bool{}
	ev := NewEvaluator(spyRegistry(called), NewRepository(s))

	for _, k := range Kinds() {
		rule := &Rule{Kind: k, QuestionID: 1, Primary: true}
		if kindSpecs[k].related == relatedQuestion {
			rule.RelatedQuestionID = 2
		}
		ev.CheckOne(rule, resp.AnswerToQuestion(q), false)
		assert.Equal(t, k.AppliesWhenAnswerAbsent(), called[k], k)
	}

	expected := []Kind{
		KindDualComparison, KindPresentIfConst, KindComp1, KindComp3,
		KindGestIUIDate, KindGestETDate, KindThawDonor, KindSurrogacy,
	}
	for _, k := range expected {
		assert.True(t, k.AppliesWhenAnswerAbsent(), k)
	}
}

func TestCheckOneRelatedAbsentPolicy(t *testing.T) {
	s := survey.New(1, "policy")
	require.NoError(t, s.AddQuestion(&survey.Question{ID: 1, Code: "A", Type: survey.TypeInteger}))
	require.NoError(t, s.AddQuestion(&survey.Question{ID: 2, Code: "B", Type: survey.TypeInteger}))
	resp := survey.NewResponse(s, "r", 2012)
	require.NoError(t, resp.SetAnswer("A", "1"))
	require.NoError(t, resp.SetAnswer("B", "not a number"))

	called := map[Kind]bool{}
	ev := NewEvaluator(spyRegistry(called), NewRepository(s))

	for k, spec := range kindSpecs {
		if spec.related != relatedQuestion {
			continue
		}
		rule := &Rule{Kind: k, QuestionID: 1, RelatedQuestionID: 2, Primary: true}
		ev.CheckOne(rule, resp.AnswerTo(1), false)
		assert.Equal(t, k.AppliesWhenRelatedAbsent(), called[k], k)
	}

	for _, k := range []Kind{KindPresentImpliesPresent, KindConstImpliesPresent, KindSetImpliesPresent, KindDualComparison} {
		assert.True(t, called[k], k)
	}
}
