package cqv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/intersect/anzard/pkg/survey"
)

// Params carries the comparison parameters a checker reads.
type Params struct {
	Operator               Operator
	Constant               survey.Value
	ConditionalOperator    Operator
	ConditionalConstant    survey.Value
	SetOperator            SetOperator
	Set                    []survey.Value
	ConditionalSetOperator SetOperator
	ConditionalSet         []survey.Value
	RelatedQuestionIDs     []int64
	RelatedRuleIDs         []int64
}

// Offset is the numeric constant used by offset-taking rules. A blank
// constant means no offset.
func (p Params) Offset() float64 {
	if p.Constant.IsNumber() {
		return p.Constant.Num()
	}
	return 0
}

// Rule is one cross-question validation definition.
type Rule struct {
	ID    int64
	Label string
	Kind  Kind

	// QuestionID is the answer under validation.
	QuestionID int64
	// RelatedQuestionID is the single related question, if the kind uses one.
	// Lists of related questions or rules live in Params.
	RelatedQuestionID int64

	Params

	ErrorMessage string
	// Primary rules run on their own; secondary rules only run when a
	// composite rule pulls them in.
	Primary bool
	// Fatal failures block submission rather than being advisory.
	Fatal bool
}

// Message is the configured error message, or a generated one for secondary
// rules that omit it.
func (r *Rule) Message() string {
	if strings.TrimSpace(r.ErrorMessage) != "" {
		return r.ErrorMessage
	}
	return fmt.Sprintf("Failure in %s", r.Kind)
}

func (r *Rule) String() string {
	if r.Label != "" {
		return fmt.Sprintf("%s(%s)", r.Kind, r.Label)
	}
	return fmt.Sprintf("%s(#%d)", r.Kind, r.ID)
}

// Validate checks the definition against the closed rule tables and the
// survey catalog. All problems found are joined into one error.
func (r *Rule) Validate(catalog *survey.Survey) error {
	spec, ok := kindSpecs[r.Kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRule, r.Kind)
	}

	var errs []error
	add := func(err error) { errs = append(errs, err) }

	var target *survey.Question
	if r.QuestionID == 0 {
		add(ErrMissingQuestion)
	} else if catalog != nil {
		q, ok := catalog.Question(r.QuestionID)
		if !ok {
			add(fmt.Errorf("%w: question id %d", ErrUnknownQuestion, r.QuestionID))
		}
		target = q
	}

	if err := r.validateRelated(spec, catalog); err != nil {
		add(err)
	}

	if spec.operator && r.Operator == OpNone {
		add(fmt.Errorf("%w: %s", ErrMissingOperator, r.Kind))
	}
	if spec.condOperator && r.ConditionalOperator == OpNone {
		add(fmt.Errorf("%w: %s", ErrMissingConditionalOp, r.Kind))
	}
	if spec.set && (r.SetOperator == SetNone || len(r.Set) == 0) {
		add(fmt.Errorf("%w: %s", ErrMissingSetOrOperator, r.Kind))
	}
	if spec.condSet && (r.ConditionalSetOperator == SetNone || len(r.ConditionalSet) == 0) {
		add(fmt.Errorf("%w: %s", ErrMissingConditionalSet, r.Kind))
	}
	if spec.numericConstant && !r.Constant.IsZero() && !r.Constant.IsNumber() {
		add(fmt.Errorf("invalid cqv offset %q - %w", r.Constant.String(), ErrInvalidOffset))
	}
	if r.Primary && strings.TrimSpace(r.ErrorMessage) == "" {
		add(ErrMissingErrorMessage)
	}

	if target != nil && spec.questionCode != "" && !strings.EqualFold(target.Code, spec.questionCode) {
		add(fmt.Errorf("%w: %s requires question code %s but got %s",
			ErrWrongQuestionCode, r.Kind, spec.questionCode, target.Code))
	}
	if target != nil && spec.questionType != "" && target.Type != spec.questionType {
		add(fmt.Errorf("%w: %s requires a %s question but %s is %s",
			ErrWrongQuestionType, r.Kind, spec.questionType, target.Code, target.Type))
	}

	return errors.Join(errs...)
}

func (r *Rule) validateRelated(spec kindSpec, catalog *survey.Survey) error {
	present := 0
	if r.RelatedQuestionID != 0 {
		present++
	}
	if len(r.RelatedQuestionIDs) > 0 {
		present++
	}
	if len(r.RelatedRuleIDs) > 0 {
		present++
	}

	summary := fmt.Sprintf("%d,%v,%v", r.RelatedQuestionID, r.RelatedQuestionIDs, r.RelatedRuleIDs)
	if spec.related == relatedNone {
		if present != 0 {
			return fmt.Errorf("%w: %s - %s", ErrUnexpectedRelated, r.Kind, summary)
		}
		return nil
	}
	if present != 1 {
		return fmt.Errorf("invalid cqv - %w - %s", ErrRelatedExclusivity, summary)
	}

	var n int
	switch spec.related {
	case relatedQuestion:
		if r.RelatedQuestionID == 0 {
			return fmt.Errorf("%w: %s takes a %s", ErrRelatedExclusivity, r.Kind, spec.related)
		}
		return r.checkQuestions(catalog, r.RelatedQuestionID)
	case relatedQuestionList:
		n = len(r.RelatedQuestionIDs)
		if n == 0 {
			return fmt.Errorf("%w: %s takes a %s", ErrRelatedExclusivity, r.Kind, spec.related)
		}
		if err := r.checkQuestions(catalog, r.RelatedQuestionIDs...); err != nil {
			return err
		}
	case relatedRuleList:
		n = len(r.RelatedRuleIDs)
		if n == 0 {
			return fmt.Errorf("%w: %s takes a %s", ErrRelatedExclusivity, r.Kind, spec.related)
		}
		for _, id := range r.RelatedRuleIDs {
			if id == r.ID && r.ID != 0 {
				return fmt.Errorf("%w: %s", ErrRuleCycle, r)
			}
		}
	}

	if spec.relatedCount > 0 && n != spec.relatedCount {
		return fmt.Errorf("%w: %s needs %d, got %d", ErrRelatedCount, r.Kind, spec.relatedCount, n)
	}
	return nil
}

func (r *Rule) checkQuestions(catalog *survey.Survey, ids ...int64) error {
	if catalog == nil {
		return nil
	}
	for _, id := range ids {
		if _, ok := catalog.Question(id); !ok {
			return fmt.Errorf("%w: related question id %d", ErrUnknownQuestion, id)
		}
	}
	return nil
}
