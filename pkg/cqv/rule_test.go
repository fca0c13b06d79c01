package cqv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intersect/anzard/pkg/cqv"
	"github.com/intersect/anzard/pkg/survey"
)

func TestRuleValidate(t *testing.T) {
	f := newFixture(t, cqv.NewRegistry(), "A:Integer", "B:Integer", "C:Integer", "N_FERT:Integer")
	a, b, c := f.id("A"), f.id("B"), f.id("C")

	valid := func() *cqv.Rule {
		return &cqv.Rule{
			Kind:              cqv.KindComparison,
			QuestionID:        a,
			RelatedQuestionID: b,
			Params:            cqv.Params{Operator: cqv.OpLe},
			ErrorMessage:      "A must not exceed B",
			Primary:           true,
		}
	}

	t.Run("valid rule", func(t *testing.T) {
		assert.NoError(t, valid().Validate(f.s))
	})

	t.Run("related question and list together are rejected", func(t *testing.T) {
		r := valid()
		r.RelatedQuestionIDs = []int64{c}
		assert.ErrorIs(t, r.Validate(f.s), cqv.ErrRelatedExclusivity)
	})

	t.Run("no related reference is rejected", func(t *testing.T) {
		r := valid()
		r.RelatedQuestionID = 0
		assert.ErrorIs(t, r.Validate(f.s), cqv.ErrRelatedExclusivity)
	})

	t.Run("wrong related shape is rejected", func(t *testing.T) {
		r := valid()
		r.RelatedQuestionID = 0
		r.RelatedQuestionIDs = []int64{b}
		assert.ErrorIs(t, r.Validate(f.s), cqv.ErrRelatedExclusivity)
	})

	t.Run("self comparison takes no related", func(t *testing.T) {
		r := valid()
		r.Kind = cqv.KindSelfComparison
		r.Constant = survey.Number(3)
		assert.ErrorIs(t, r.Validate(f.s), cqv.ErrUnexpectedRelated)
	})

	t.Run("target is required", func(t *testing.T) {
		r := valid()
		r.QuestionID = 0
		assert.ErrorIs(t, r.Validate(f.s), cqv.ErrMissingQuestion)
	})

	t.Run("unknown question", func(t *testing.T) {
		r := valid()
		r.RelatedQuestionID = 999
		assert.ErrorIs(t, r.Validate(f.s), cqv.ErrUnknownQuestion)
	})

	t.Run("operator is required", func(t *testing.T) {
		r := valid()
		r.Operator = cqv.OpNone
		assert.ErrorIs(t, r.Validate(f.s), cqv.ErrMissingOperator)
	})

	t.Run("offset must be numeric", func(t *testing.T) {
		r := valid()
		r.Constant = survey.Text("abc")
		err := r.Validate(f.s)
		require.ErrorIs(t, err, cqv.ErrInvalidOffset)
		assert.Contains(t, err.Error(), `invalid cqv offset "abc"`)
	})

	t.Run("primary rules need a message", func(t *testing.T) {
		r := valid()
		r.ErrorMessage = " "
		assert.ErrorIs(t, r.Validate(f.s), cqv.ErrMissingErrorMessage)

		r.Primary = false
		assert.NoError(t, r.Validate(f.s))
	})

	t.Run("set kinds need a set and operator", func(t *testing.T) {
		r := valid()
		r.Kind = cqv.KindConstImpliesSet
		r.ConditionalOperator = cqv.OpEq
		r.ConditionalConstant = survey.Number(1)
		assert.ErrorIs(t, r.Validate(f.s), cqv.ErrMissingSetOrOperator)

		r.SetOperator = cqv.SetIncluded
		r.Set = []survey.Value{survey.Number(1)}
		assert.NoError(t, r.Validate(f.s))
	})

	t.Run("list length is fixed for some kinds", func(t *testing.T) {
		r := valid()
		r.Kind = cqv.KindMultiHoursDateToDate
		r.RelatedQuestionID = 0
		r.RelatedQuestionIDs = []int64{b, c}
		assert.ErrorIs(t, r.Validate(f.s), cqv.ErrRelatedCount)
	})

	t.Run("special rules are pinned to a question code", func(t *testing.T) {
		r := &cqv.Rule{Kind: cqv.KindComp2, QuestionID: a, ErrorMessage: "x", Primary: true}
		assert.ErrorIs(t, r.Validate(f.s), cqv.ErrWrongQuestionCode)

		r.QuestionID = f.id("n_fert")
		assert.NoError(t, r.Validate(f.s))
	})

	t.Run("date of birth rule needs a date question", func(t *testing.T) {
		g := newFixture(t, cqv.NewRegistry(), "FDOB:Date", "AGE:Integer")
		r := &cqv.Rule{Kind: cqv.KindDOB, QuestionID: g.id("AGE"), ErrorMessage: "x", Primary: true}
		assert.ErrorIs(t, r.Validate(g.s), cqv.ErrWrongQuestionType)

		r.QuestionID = g.id("FDOB")
		assert.NoError(t, r.Validate(g.s))
	})

	t.Run("problems are reported together", func(t *testing.T) {
		r := valid()
		r.Operator = cqv.OpNone
		r.ErrorMessage = ""
		err := r.Validate(f.s)
		assert.ErrorIs(t, err, cqv.ErrMissingOperator)
		assert.ErrorIs(t, err, cqv.ErrMissingErrorMessage)
	})

	t.Run("unknown kind", func(t *testing.T) {
		r := valid()
		r.Kind = "special_magic"
		assert.ErrorIs(t, r.Validate(f.s), cqv.ErrUnknownRule)
	})
}

func TestRuleMessage(t *testing.T) {
	r := &cqv.Rule{Kind: cqv.KindSelfComparison}
	assert.Equal(t, "Failure in self_comparison", r.Message())

	r.ErrorMessage = "too big"
	assert.Equal(t, "too big", r.Message())
}

func TestParseKind(t *testing.T) {
	k, err := cqv.ParseKind(" special_rule_comp1 ")
	require.NoError(t, err)
	assert.Equal(t, cqv.KindComp1, k)

	_, err = cqv.ParseKind("eval")
	assert.ErrorIs(t, err, cqv.ErrUnknownRule)

	code, ok := cqv.KindSurrogacy.RequiredQuestionCode()
	require.True(t, ok)
	assert.Equal(t, "DON_AGE", code)

	_, ok = cqv.KindComparison.RequiredQuestionCode()
	assert.False(t, ok)
}
