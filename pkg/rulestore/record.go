package rulestore

import (
	"errors"
	"fmt"

	"github.com/intersect/anzard/pkg/cqv"
	"github.com/intersect/anzard/pkg/survey"
)

// record is the storage shape of a rule. Questions are kept by code so a
// stored rule set survives catalog id renumbering; constants and set
// elements are kept in their textual form.
type record struct {
	ID                     int64
	Label                  string
	Kind                   string
	QuestionCode           string
	RelatedQuestionCode    string
	RelatedQuestionCodes   []string
	RelatedRuleIDs         []int64
	Operator               string
	Constant               string
	ConditionalOperator    string
	ConditionalConstant    string
	SetOperator            string
	Set                    []string
	ConditionalSetOperator string
	ConditionalSet         []string
	ErrorMessage           string
	Primary                bool
	Fatal                  bool
}

func encodeRule(rule *cqv.Rule, catalog *survey.Survey) (record, error) {
	code := func(id int64) (string, error) {
		q, ok := catalog.Question(id)
		if !ok {
			return "", fmt.Errorf("%w: question id %d", cqv.ErrUnknownQuestion, id)
		}
		return q.Code, nil
	}

	rec := record{
		ID:                     rule.ID,
		Label:                  rule.Label,
		Kind:                   rule.Kind.String(),
		RelatedRuleIDs:         nonNil(rule.RelatedRuleIDs),
		Operator:               rule.Operator.String(),
		Constant:               rule.Constant.String(),
		ConditionalOperator:    rule.ConditionalOperator.String(),
		ConditionalConstant:    rule.ConditionalConstant.String(),
		SetOperator:            rule.SetOperator.String(),
		Set:                    valueStrings(rule.Set),
		ConditionalSetOperator: rule.ConditionalSetOperator.String(),
		ConditionalSet:         valueStrings(rule.ConditionalSet),
		ErrorMessage:           rule.ErrorMessage,
		Primary:                rule.Primary,
		Fatal:                  rule.Fatal,
	}

	var err error
	if rec.QuestionCode, err = code(rule.QuestionID); err != nil {
		return record{}, err
	}
	if rule.RelatedQuestionID != 0 {
		if rec.RelatedQuestionCode, err = code(rule.RelatedQuestionID); err != nil {
			return record{}, err
		}
	}
	rec.RelatedQuestionCodes = make([]string, 0, len(rule.RelatedQuestionIDs))
	for _, id := range rule.RelatedQuestionIDs {
		c, err := code(id)
		if err != nil {
			return record{}, err
		}
		rec.RelatedQuestionCodes = append(rec.RelatedQuestionCodes, c)
	}
	return rec, nil
}

func decodeRule(rec record, catalog *survey.Survey) (*cqv.Rule, error) {
	var errs []error
	id := func(code string) int64 {
		q, ok := catalog.QuestionWithCode(code)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", cqv.ErrUnknownQuestion, code))
			return 0
		}
		return q.ID
	}

	kind, err := cqv.ParseKind(rec.Kind)
	if err != nil {
		return nil, errors.Join(ErrCorruptRule, err)
	}
	rule := &cqv.Rule{
		ID:           rec.ID,
		Label:        rec.Label,
		Kind:         kind,
		QuestionID:   id(rec.QuestionCode),
		ErrorMessage: rec.ErrorMessage,
		Primary:      rec.Primary,
		Fatal:        rec.Fatal,
	}
	if rec.RelatedQuestionCode != "" {
		rule.RelatedQuestionID = id(rec.RelatedQuestionCode)
	}
	for _, c := range rec.RelatedQuestionCodes {
		rule.RelatedQuestionIDs = append(rule.RelatedQuestionIDs, id(c))
	}
	if len(rec.RelatedRuleIDs) > 0 {
		rule.RelatedRuleIDs = rec.RelatedRuleIDs
	}

	if rule.Operator, err = cqv.ParseOperator(rec.Operator); err != nil {
		errs = append(errs, err)
	}
	if rule.ConditionalOperator, err = cqv.ParseOperator(rec.ConditionalOperator); err != nil {
		errs = append(errs, err)
	}
	if rule.SetOperator, err = cqv.ParseSetOperator(rec.SetOperator); err != nil {
		errs = append(errs, err)
	}
	if rule.ConditionalSetOperator, err = cqv.ParseSetOperator(rec.ConditionalSetOperator); err != nil {
		errs = append(errs, err)
	}
	rule.Constant = survey.ParseConstant(rec.Constant)
	rule.ConditionalConstant = survey.ParseConstant(rec.ConditionalConstant)
	rule.Set = parseValues(rec.Set)
	rule.ConditionalSet = parseValues(rec.ConditionalSet)

	if len(errs) > 0 {
		return nil, fmt.Errorf("rule %d: %w", rec.ID, errors.Join(append([]error{ErrCorruptRule}, errs...)...))
	}
	return rule, nil
}

func valueStrings(vs []survey.Value) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}

func parseValues(ss []string) []survey.Value {
	if len(ss) == 0 {
		return nil
	}
	out := make([]survey.Value, len(ss))
	for i, s := range ss {
		out[i] = survey.ParseConstant(s)
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
