package cqv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/intersect/anzard/pkg/cqv"
	"github.com/intersect/anzard/pkg/survey"
)

// pairCase is one answer pair for a rule on q1 relating to q2. A blank
// string leaves the question unanswered.
type pairCase struct {
	name   string
	q1, q2 string
	fails  bool
}

// pairFixture builds q1 and q2 with the given types and one primary rule on
// q1 with q2 as its related question.
func pairFixture(t *testing.T, q1Type, q2Type string, kind cqv.Kind, params cqv.Params) *fixture {
	t.Helper()
	f := newFixture(t, cqv.NewRegistry(), "q1:"+q1Type, "q2:"+q2Type)
	rule := &cqv.Rule{
		Kind:         kind,
		QuestionID:   f.id("q1"),
		Params:       params,
		ErrorMessage: errMsg,
		Primary:      true,
	}
	if kind != cqv.KindSelfComparison {
		rule.RelatedQuestionID = f.id("q2")
	}
	f.add(rule)
	return f
}

func runPairCases(t *testing.T, f *fixture, cases []pairCase) {
	t.Helper()
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			f.fresh()
			f.set(map[string]string{"q1": tt.q1, "q2": tt.q2})
			got := f.check("q1")
			if tt.fails {
				assert.Equal(t, []string{errMsg}, got)
				return
			}
			assert.Empty(t, got)
		})
	}
}

func TestDateImpliesConstant(t *testing.T) {
	f := pairFixture(t, "Integer", "Date", cqv.KindDateImpliesConstant,
		cqv.Params{Operator: cqv.OpEq, Constant: survey.Number(-1)})

	runPairCases(t, f, []pairCase{
		{name: "both blank", q1: "", q2: ""},
		{name: "related not a date", q1: "", q2: "5"},
		{name: "related malformed with answer", q1: "5", q2: "5"},
		{name: "date and wrong constant", q1: "5", q2: "2012-02-03", fails: true},
		{name: "date and expected constant", q1: "-1", q2: "2012-02-01"},
		{name: "date and blank answer", q1: "", q2: "2012-02-01"},
	})

	t.Run("non-date related answer never triggers", func(t *testing.T) {
		g := pairFixture(t, "Text", "Integer", cqv.KindDateImpliesConstant,
			cqv.Params{Operator: cqv.OpEq, Constant: survey.Text("y")})
		g.set(map[string]string{"q1": "n", "q2": "0"})
		assert.Empty(t, g.check("q1"))
	})
}

func TestConstImpliesConst(t *testing.T) {
	t.Run("numeric constants", func(t *testing.T) {
		f := pairFixture(t, "Integer", "Integer", cqv.KindConstImpliesConst, cqv.Params{
			ConditionalOperator: cqv.OpNe, ConditionalConstant: survey.Number(0),
			Operator: cqv.OpGt, Constant: survey.Number(0),
		})
		runPairCases(t, f, []pairCase{
			{name: "both blank", q1: "", q2: ""},
			{name: "condition not met", q1: "-1", q2: "0"},
			{name: "condition met and answer wrong", q1: "-1", q2: "1", fails: true},
			{name: "condition met and answer right", q1: "1", q2: "1"},
			{name: "related blank", q1: "-1", q2: ""},
		})
	})

	t.Run("textual constant", func(t *testing.T) {
		f := pairFixture(t, "Text", "Integer", cqv.KindConstImpliesConst, cqv.Params{
			ConditionalOperator: cqv.OpGt, ConditionalConstant: survey.Number(0),
			Operator: cqv.OpEq, Constant: survey.Text("y"),
		})
		runPairCases(t, f, []pairCase{
			{name: "both blank", q1: "", q2: ""},
			{name: "condition not met", q1: "n", q2: "0"},
			{name: "condition met and answer wrong", q1: "n", q2: "1", fails: true},
			{name: "condition met and answer right", q1: "y", q2: "1"},
		})
	})
}

func TestConstImpliesSet(t *testing.T) {
	n := survey.Number
	f := pairFixture(t, "Integer", "Integer", cqv.KindConstImpliesSet, cqv.Params{
		ConditionalOperator: cqv.OpNe, ConditionalConstant: n(0),
		SetOperator: cqv.SetIncluded, Set: []survey.Value{n(1), n(3), n(5), n(7)},
	})

	runPairCases(t, f, []pairCase{
		{name: "both blank", q1: "", q2: ""},
		{name: "condition not met", q1: "-1", q2: "0"},
		{name: "condition met and answer outside set", q1: "0", q2: "1", fails: true},
		{name: "condition met and answer in set", q1: "1", q2: "1"},
	})
}

func TestSetImpliesConst(t *testing.T) {
	n := survey.Number
	f := pairFixture(t, "Integer", "Integer", cqv.KindSetImpliesConst, cqv.Params{
		ConditionalSetOperator: cqv.SetIncluded, ConditionalSet: []survey.Value{n(2), n(4)},
		Operator: cqv.OpGt, Constant: n(0),
	})

	runPairCases(t, f, []pairCase{
		{name: "both blank", q1: "", q2: ""},
		{name: "related outside set", q1: "-1", q2: "3"},
		{name: "related in set and answer wrong", q1: "-1", q2: "2", fails: true},
		{name: "related in set and answer right", q1: "5", q2: "4"},
		{name: "answer blank", q1: "", q2: "2"},
		{name: "answer malformed", q1: "x", q2: "2"},
	})
}

func TestSetImpliesSet(t *testing.T) {
	n := survey.Number
	f := pairFixture(t, "Integer", "Integer", cqv.KindSetImpliesSet, cqv.Params{
		ConditionalSetOperator: cqv.SetIncluded, ConditionalSet: []survey.Value{n(2), n(4), n(6), n(8)},
		SetOperator: cqv.SetIncluded, Set: []survey.Value{n(1), n(3), n(5), n(7)},
	})

	runPairCases(t, f, []pairCase{
		{name: "both blank", q1: "", q2: ""},
		{name: "related outside set", q1: "-1", q2: "0"},
		{name: "related in set and answer outside set", q1: "0", q2: "2", fails: true},
		{name: "related in set and answer in set", q1: "1", q2: "2"},
	})
}

func TestBlankUnlessSet(t *testing.T) {
	n := survey.Number
	f := pairFixture(t, "Integer", "Integer", cqv.KindBlankUnlessSet, cqv.Params{
		ConditionalSetOperator: cqv.SetRange, ConditionalSet: []survey.Value{n(1), n(3)},
	})

	runPairCases(t, f, []pairCase{
		{name: "answer blank", q1: "", q2: "9"},
		{name: "related in range", q1: "5", q2: "2"},
		{name: "related at range end", q1: "5", q2: "3"},
		{name: "related outside range", q1: "5", q2: "9", fails: true},
		{name: "related blank is not run", q1: "5", q2: ""},
	})
}

func TestBlankIfConst(t *testing.T) {
	t.Run("numeric constant", func(t *testing.T) {
		f := pairFixture(t, "Integer", "Integer", cqv.KindBlankIfConst,
			cqv.Params{ConditionalOperator: cqv.OpEq, ConditionalConstant: survey.Number(-1)})
		runPairCases(t, f, []pairCase{
			{name: "related blank", q1: "7", q2: ""},
			{name: "both blank", q1: "", q2: ""},
			{name: "condition not met and answer blank", q1: "", q2: "0"},
			{name: "condition not met and answered", q1: "123", q2: "0"},
			{name: "condition met and answer blank", q1: "", q2: "-1"},
			{name: "condition met and answered", q1: "123", q2: "-1", fails: true},
		})
	})

	t.Run("textual constant", func(t *testing.T) {
		f := pairFixture(t, "Integer", "Text", cqv.KindBlankIfConst,
			cqv.Params{ConditionalOperator: cqv.OpEq, ConditionalConstant: survey.Text("n")})
		runPairCases(t, f, []pairCase{
			{name: "related blank", q1: "7", q2: ""},
			{name: "condition not met and answered", q1: "123", q2: "y"},
			{name: "condition met and answer blank", q1: "", q2: "n"},
			{name: "condition met and answered", q1: "123", q2: "n", fails: true},
		})
	})
}

func TestPresentIfConst(t *testing.T) {
	t.Run("numeric constant", func(t *testing.T) {
		f := pairFixture(t, "Integer", "Integer", cqv.KindPresentIfConst,
			cqv.Params{ConditionalOperator: cqv.OpEq, ConditionalConstant: survey.Number(-1)})
		runPairCases(t, f, []pairCase{
			{name: "related blank and answered", q1: "7", q2: ""},
			{name: "both blank", q1: "", q2: ""},
			{name: "condition not met and answer blank", q1: "", q2: "0"},
			{name: "condition not met and answered", q1: "7", q2: "0"},
			{name: "condition met and answered", q1: "7", q2: "-1"},
			{name: "condition met and answer blank", q1: "", q2: "-1", fails: true},
			{name: "condition met and answer malformed", q1: "x", q2: "-1", fails: true},
		})
	})

	t.Run("textual constant", func(t *testing.T) {
		f := pairFixture(t, "Integer", "Text", cqv.KindPresentIfConst,
			cqv.Params{ConditionalOperator: cqv.OpEq, ConditionalConstant: survey.Text("y")})
		runPairCases(t, f, []pairCase{
			{name: "related blank and answered", q1: "7", q2: ""},
			{name: "condition not met and answer blank", q1: "", q2: "n"},
			{name: "condition met and answered", q1: "7", q2: "y"},
			{name: "condition met and answer blank", q1: "", q2: "y", fails: true},
		})
	})
}

func TestConstImpliesPresent(t *testing.T) {
	t.Run("numeric constant", func(t *testing.T) {
		f := pairFixture(t, "Integer", "Date", cqv.KindConstImpliesPresent,
			cqv.Params{Operator: cqv.OpEq, Constant: survey.Number(-1)})
		runPairCases(t, f, []pairCase{
			{name: "malformed answer is not run", q1: "ab", q2: "2011-12-12"},
			{name: "both answered and constant matches", q1: "-1", q2: "2011-12-12"},
			{name: "both answered and constant differs", q1: "99", q2: "2011-12-12"},
			{name: "related blank and constant matches", q1: "-1", q2: "", fails: true},
			{name: "related blank and constant differs", q1: "00", q2: ""},
			{name: "related malformed and constant matches", q1: "-1", q2: "2011-12-", fails: true},
		})
	})

	t.Run("textual constant", func(t *testing.T) {
		f := pairFixture(t, "Text", "Date", cqv.KindConstImpliesPresent,
			cqv.Params{Operator: cqv.OpEq, Constant: survey.Text("yes")})
		runPairCases(t, f, []pairCase{
			{name: "other text", q1: "ab", q2: "2011-12-12"},
			{name: "both answered and constant matches", q1: "yes", q2: "2011-12-12"},
			{name: "both answered and constant differs", q1: "no", q2: "2011-12-12"},
			{name: "related blank and constant matches", q1: "yes", q2: "", fails: true},
			{name: "related blank and constant differs", q1: "no", q2: ""},
			{name: "related malformed and constant matches", q1: "yes", q2: "2011-12-", fails: true},
		})
	})
}

func TestSetImpliesPresent(t *testing.T) {
	n := survey.Number
	f := pairFixture(t, "Choice", "Date", cqv.KindSetImpliesPresent, cqv.Params{
		SetOperator: cqv.SetRange, Set: []survey.Value{n(2), n(7)},
	})

	runPairCases(t, f, []pairCase{
		{name: "non-numeric answer", q1: "ab", q2: "2011-12-12"},
		{name: "both answered at range start", q1: "2", q2: "2011-12-12"},
		{name: "both answered mid range", q1: "5", q2: "2011-12-12"},
		{name: "both answered at range end", q1: "7", q2: "2011-12-12"},
		{name: "related blank at range start", q1: "2", q2: "", fails: true},
		{name: "related blank mid range", q1: "5", q2: "", fails: true},
		{name: "related blank at range end", q1: "7", q2: "", fails: true},
		{name: "related blank outside range", q1: "8", q2: ""},
		{name: "related malformed in range", q1: "3", q2: "2011-12-", fails: true},
	})
}

func TestSelfComparison(t *testing.T) {
	f := pairFixture(t, "Decimal", "Integer", cqv.KindSelfComparison,
		cqv.Params{Operator: cqv.OpLe, Constant: survey.Number(45)})

	runPairCases(t, f, []pairCase{
		{name: "blank is not run", q1: "", q2: ""},
		{name: "malformed is not run", q1: "abc", q2: ""},
		{name: "below limit", q1: "12.5", q2: ""},
		{name: "at limit", q1: "45", q2: ""},
		{name: "above limit", q1: "45.1", q2: "", fails: true},
		{name: "other answers are ignored", q1: "40", q2: "99"},
	})
}
