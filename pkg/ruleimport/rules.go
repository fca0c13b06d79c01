package ruleimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/intersect/anzard/pkg/cqv"
	"github.com/intersect/anzard/pkg/survey"
)

// Column names of a rule definition file.
const (
	ColLabel                  = "rule_label"
	ColRule                   = "rule"
	ColQuestionCode           = "question_code"
	ColRelatedQuestionCode    = "related_question_code"
	ColRelatedQuestionList    = "related_question_list"
	ColRuleLabelList          = "rule_label_list"
	ColOperator               = "operator"
	ColConstant               = "constant"
	ColConditionalOperator    = "conditional_operator"
	ColConditionalConstant    = "conditional_constant"
	ColSetOperator            = "set_operator"
	ColSet                    = "set"
	ColConditionalSetOperator = "conditional_set_operator"
	ColConditionalSet         = "conditional_set"
	ColErrorMessage           = "error_message"
	ColPrimary                = "primary"
	ColFatal                  = "fatal"
)

var requiredColumns = []string{ColRule, ColQuestionCode}

// row is one CSV record addressed by column name.
type row struct {
	line   int
	fields map[string]string
}

func (r row) get(col string) string {
	return strings.TrimSpace(r.fields[col])
}

// ReadRules parses a rule definition CSV against catalog into a validated
// repository. Question codes and rule labels must resolve; rule labels may
// refer to rows further down the file. The import is all-or-nothing: any
// problem returns a nil repository and every row error joined together.
func ReadRules(r io.Reader, catalog *survey.Survey) (*cqv.Repository, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	// ids follow file order so labels can be resolved before rules are built
	labels := make(map[string]int64, len(rows))
	var errs []error
	for i, rw := range rows {
		label := strings.ToLower(rw.get(ColLabel))
		if label == "" {
			continue
		}
		if _, dup := labels[label]; dup {
			errs = append(errs, fmt.Errorf("line %d: %w: %s", rw.line, ErrDuplicateRuleLabel, rw.get(ColLabel)))
			continue
		}
		labels[label] = int64(i + 1)
	}

	repo := cqv.NewRepository(catalog)
	for i, rw := range rows {
		rule, err := buildRule(rw, int64(i+1), catalog, labels)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", rw.line, err))
			continue
		}
		if _, err := repo.Add(rule); err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", rw.line, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := repo.Validate(); err != nil {
		return nil, err
	}
	return repo, nil
}

func readRows(r io.Reader) ([]row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMalformedFile)
	}
	if err != nil {
		return nil, errors.Join(ErrMalformedFile, err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}
	for _, col := range requiredColumns {
		if !slices.Contains(header, col) {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var rows []row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Join(ErrMalformedFile, err)
		}
		line, _ := cr.FieldPos(0)
		fields := make(map[string]string, len(header))
		blank := true
		for i, v := range rec {
			if i < len(header) {
				fields[header[i]] = v
			}
			if strings.TrimSpace(v) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		rows = append(rows, row{line: line, fields: fields})
	}
	return rows, nil
}

func buildRule(rw row, id int64, catalog *survey.Survey, labels map[string]int64) (*cqv.Rule, error) {
	var errs []error
	fail := func(err error) { errs = append(errs, err) }

	kind, err := cqv.ParseKind(rw.get(ColRule))
	if err != nil {
		return nil, err
	}

	rule := &cqv.Rule{
		ID:           id,
		Label:        rw.get(ColLabel),
		Kind:         kind,
		ErrorMessage: rw.get(ColErrorMessage),
	}

	if code := rw.get(ColQuestionCode); code != "" {
		rule.QuestionID, err = questionID(catalog, code)
		if err != nil {
			fail(err)
		}
	}
	if code := rw.get(ColRelatedQuestionCode); code != "" {
		rule.RelatedQuestionID, err = questionID(catalog, code)
		if err != nil {
			fail(err)
		}
	}
	for _, code := range splitList(rw.get(ColRelatedQuestionList)) {
		id, err := questionID(catalog, code)
		if err != nil {
			fail(err)
			continue
		}
		rule.RelatedQuestionIDs = append(rule.RelatedQuestionIDs, id)
	}
	for _, label := range splitList(rw.get(ColRuleLabelList)) {
		id, ok := labels[strings.ToLower(label)]
		if !ok {
			fail(fmt.Errorf("%w: %s", ErrUnknownRuleLabel, label))
			continue
		}
		rule.RelatedRuleIDs = append(rule.RelatedRuleIDs, id)
	}

	if rule.Operator, err = cqv.ParseOperator(rw.get(ColOperator)); err != nil {
		fail(err)
	}
	if rule.ConditionalOperator, err = cqv.ParseOperator(rw.get(ColConditionalOperator)); err != nil {
		fail(err)
	}
	if rule.SetOperator, err = cqv.ParseSetOperator(rw.get(ColSetOperator)); err != nil {
		fail(err)
	}
	if rule.ConditionalSetOperator, err = cqv.ParseSetOperator(rw.get(ColConditionalSetOperator)); err != nil {
		fail(err)
	}
	rule.Constant = survey.ParseConstant(rw.get(ColConstant))
	rule.ConditionalConstant = survey.ParseConstant(rw.get(ColConditionalConstant))
	rule.Set = parseSet(rw.get(ColSet))
	rule.ConditionalSet = parseSet(rw.get(ColConditionalSet))

	if rule.Primary, err = parseFlag(rw.get(ColPrimary), true); err != nil {
		fail(fmt.Errorf("%s: %w", ColPrimary, err))
	}
	if rule.Fatal, err = parseFlag(rw.get(ColFatal), false); err != nil {
		fail(fmt.Errorf("%s: %w", ColFatal, err))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return rule, nil
}

func questionID(catalog *survey.Survey, code string) (int64, error) {
	q, ok := catalog.QuestionWithCode(code)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownQuestionCode, code)
	}
	return q.ID, nil
}

// splitList splits "A, B C" style lists on commas and whitespace.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == ';'
	})
}

// parseSet reads "[1, 2, 3]", "1,2,3" or `["y", "n"]` into constants in
// declaration order.
func parseSet(s string) []survey.Value {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]survey.Value, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"'`)
		if p == "" {
			continue
		}
		out = append(out, survey.ParseConstant(p))
	}
	return out
}

func parseFlag(s string, def bool) (bool, error) {
	switch strings.ToLower(s) {
	case "":
		return def, nil
	case "y", "yes", "true", "t", "1":
		return true, nil
	case "n", "no", "false", "f", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q is not a yes/no flag", ErrInvalidValue, s)
	}
}
