package cqv

import (
	"fmt"

	"github.com/intersect/anzard/pkg/survey"
)

func genericCheckers() map[Kind]Checker {
	return map[Kind]Checker{
		KindComparison:               checkComparison,
		KindDateImpliesConstant:      checkDateImpliesConstant,
		KindConstImpliesConst:        checkConstImpliesConst,
		KindConstImpliesSet:          checkConstImpliesSet,
		KindSetImpliesConst:          checkSetImpliesConst,
		KindSetImpliesSet:            checkSetImpliesSet,
		KindBlankUnlessConst:         checkBlankUnlessConst,
		KindBlankUnlessSet:           checkBlankUnlessSet,
		KindBlankUnlessDaysConst:     checkBlankUnlessDaysConst,
		KindBlankIfConst:             checkBlankIfConst,
		KindPresentIfConst:           checkPresentIfConst,
		KindMultiRuleAnyPass:         checkMultiRuleAnyPass,
		KindMultiRuleIfThen:          checkMultiRuleIfThen,
		KindMultiHoursDateToDate:     checkMultiHoursDateToDate,
		KindMultiCompareDatetimeQuad: checkMultiCompareDatetimeQuad,
		KindPresentImpliesPresent:    checkPresentImpliesPresent,
		KindConstImpliesPresent:      checkConstImpliesPresent,
		KindSetImpliesPresent:        checkSetImpliesPresent,
		KindConstImpliesOneOfConst:   checkConstImpliesOneOfConst,
		KindSelfComparison:           checkSelfComparison,
		KindDualComparison:           checkDualComparison,
	}
}

// A (op) B + offset. Vacuous when B has no value.
func checkComparison(in Input) bool {
	rhs, ok := in.Related.WithOffset(in.Params().Offset())
	if !ok {
		return true
	}
	lhs, _ := in.Answer.Comparable()
	return Compare(lhs, in.Rule.Operator, rhs)
}

// If B is a date, A (op) k.
func checkDateImpliesConstant(in Input) bool {
	b, ok := in.Related.Comparable()
	if !ok || !b.IsDate() {
		return true
	}
	a, ok := in.Answer.Comparable()
	if !ok {
		return true
	}
	return Compare(a, in.Rule.Operator, in.Rule.Constant)
}

// If B (cond_op) k2, A (op) k.
func checkConstImpliesConst(in Input) bool {
	a, b, ok := both(in)
	if !ok {
		return true
	}
	p := in.Params()
	if !Compare(b, p.ConditionalOperator, p.ConditionalConstant) {
		return true
	}
	return Compare(a, p.Operator, p.Constant)
}

// If B (cond_op) k2, A in S.
func checkConstImpliesSet(in Input) bool {
	a, b, ok := both(in)
	if !ok {
		return true
	}
	p := in.Params()
	if !Compare(b, p.ConditionalOperator, p.ConditionalConstant) {
		return true
	}
	return SetMeetsCondition(p.Set, p.SetOperator, a)
}

// If B in S2, A (op) k.
func checkSetImpliesConst(in Input) bool {
	a, b, ok := both(in)
	if !ok {
		return true
	}
	p := in.Params()
	if !SetMeetsCondition(p.ConditionalSet, p.ConditionalSetOperator, b) {
		return true
	}
	return Compare(a, p.Operator, p.Constant)
}

// If B in S2, A in S.
func checkSetImpliesSet(in Input) bool {
	a, b, ok := both(in)
	if !ok {
		return true
	}
	p := in.Params()
	if !SetMeetsCondition(p.ConditionalSet, p.ConditionalSetOperator, b) {
		return true
	}
	return SetMeetsCondition(p.Set, p.SetOperator, a)
}

// A must be blank unless B (cond_op) k2.
func checkBlankUnlessConst(in Input) bool {
	if !in.Answer.IsWellFormed() {
		return true
	}
	b, ok := in.Related.Comparable()
	if !ok {
		return false
	}
	return Compare(b, in.Rule.ConditionalOperator, in.Rule.ConditionalConstant)
}

// A must be blank unless B in S2.
func checkBlankUnlessSet(in Input) bool {
	if !in.Answer.IsWellFormed() {
		return true
	}
	b, ok := in.Related.Comparable()
	if !ok {
		return false
	}
	return SetMeetsCondition(in.Rule.ConditionalSet, in.Rule.ConditionalSetOperator, b)
}

// (date2 - date1 in days) (cond_op) k2; vacuous unless both are dates.
func checkBlankUnlessDaysConst(in Input) bool {
	ids := in.Rule.RelatedQuestionIDs
	d1, ok1 := in.AnswerTo(ids[0]).Comparable()
	d2, ok2 := in.AnswerTo(ids[1]).Comparable()
	if !ok1 || !ok2 {
		return true
	}
	days, ok := survey.DaysBetween(d1, d2)
	if !ok {
		return true
	}
	return Compare(survey.Number(float64(days)), in.Rule.ConditionalOperator, in.Rule.ConditionalConstant)
}

// A must be blank if B (cond_op) k2.
func checkBlankIfConst(in Input) bool {
	_, b, ok := both(in)
	if !ok {
		return true
	}
	return !Compare(b, in.Rule.ConditionalOperator, in.Rule.ConditionalConstant)
}

// A must be present if B (cond_op) k2.
func checkPresentIfConst(in Input) bool {
	if in.Answer.IsWellFormed() {
		return true
	}
	b, ok := in.Related.Comparable()
	if !ok {
		return true
	}
	return !Compare(b, in.Rule.ConditionalOperator, in.Rule.ConditionalConstant)
}

// At least one referenced rule passes against the same answer.
func checkMultiRuleAnyPass(in Input) bool {
	for _, id := range in.Rule.RelatedRuleIDs {
		sub := in.subRule(id)
		if _, failed := in.runner.CheckOne(sub, in.Answer, true); !failed {
			return true
		}
	}
	return false
}

// IF the first rule holds on its own target, THEN the second must hold on
// its own target. A failing IF passes vacuously, as does an answer with no
// response to find the targets on.
func checkMultiRuleIfThen(in Input) bool {
	if in.Response == nil {
		return true
	}
	ids := in.Rule.RelatedRuleIDs
	ifRule, thenRule := in.subRule(ids[0]), in.subRule(ids[len(ids)-1])

	if _, failed := in.runner.CheckOne(ifRule, in.Response.AnswerTo(ifRule.QuestionID), true); failed {
		return true
	}
	_, failed := in.runner.CheckOne(thenRule, in.Response.AnswerTo(thenRule.QuestionID), true)
	return !failed
}

// A (op) hours(date1+time1 -> date2+time2) + offset.
func checkMultiHoursDateToDate(in Input) bool {
	start, end, ok := datetimePair(in)
	if !ok {
		return true
	}
	hours, _ := survey.HoursBetween(start, end)
	a, _ := in.Answer.Comparable()
	return Compare(a, in.Rule.Operator, survey.Number(hours+in.Params().Offset()))
}

// (date1+time1) (op) (date2+time2) + offset hours.
func checkMultiCompareDatetimeQuad(in Input) bool {
	first, second, ok := datetimePair(in)
	if !ok {
		return true
	}
	return Compare(first, in.Rule.Operator, second.AddOffset(in.Params().Offset()))
}

func checkPresentImpliesPresent(in Input) bool {
	return in.Related.IsWellFormed()
}

// If A (op) k, B must be answered.
func checkConstImpliesPresent(in Input) bool {
	a, _ := in.Answer.Comparable()
	if !Compare(a, in.Rule.Operator, in.Rule.Constant) {
		return true
	}
	return in.Related.IsWellFormed()
}

// If A in S, B must be answered.
func checkSetImpliesPresent(in Input) bool {
	a, _ := in.Answer.Comparable()
	if !SetMeetsCondition(in.Rule.Set, in.Rule.SetOperator, a) {
		return true
	}
	return in.Related.IsWellFormed()
}

// If A (op) k, at least one related answer must satisfy (cond_op) k2.
func checkConstImpliesOneOfConst(in Input) bool {
	a, _ := in.Answer.Comparable()
	p := in.Params()
	if !Compare(a, p.Operator, p.Constant) {
		return true
	}
	for _, id := range p.RelatedQuestionIDs {
		v, ok := in.AnswerTo(id).Comparable()
		if ok && Compare(v, p.ConditionalOperator, p.ConditionalConstant) {
			return true
		}
	}
	return false
}

func checkSelfComparison(in Input) bool {
	a, _ := in.Answer.Comparable()
	return Compare(a, in.Rule.Operator, in.Rule.Constant)
}

// A (op) k OR B (cond_op) k2; either side may be blank.
func checkDualComparison(in Input) bool {
	p := in.Params()
	if a, ok := in.Answer.Comparable(); ok && Compare(a, p.Operator, p.Constant) {
		return true
	}
	if b, ok := in.Related.Comparable(); ok && Compare(b, p.ConditionalOperator, p.ConditionalConstant) {
		return true
	}
	return false
}

func both(in Input) (a, b survey.Value, ok bool) {
	a, okA := in.Answer.Comparable()
	b, okB := in.Related.Comparable()
	return a, b, okA && okB
}

// datetimePair combines related questions [date1, time1, date2, time2] into
// two timestamps. ok is false if any of the four is absent or malformed.
func datetimePair(in Input) (first, second survey.Value, ok bool) {
	ids := in.Rule.RelatedQuestionIDs
	if len(ids) < 4 {
		return survey.Value{}, survey.Value{}, false
	}
	parts := make([]survey.Value, 4)
	for i := range parts {
		v, ok := in.AnswerTo(ids[i]).Comparable()
		if !ok {
			return survey.Value{}, survey.Value{}, false
		}
		parts[i] = v
	}
	first, ok1 := survey.DateTime(parts[0], parts[1])
	second, ok2 := survey.DateTime(parts[2], parts[3])
	return first, second, ok1 && ok2
}

func (in Input) subRule(id int64) *Rule {
	r, ok := in.runner.Rule(id)
	if !ok {
		panic(fmt.Errorf("%w: %d referenced by %s", ErrUnknownRuleReference, id, in.Rule))
	}
	return r
}
