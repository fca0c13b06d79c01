package cqv

import (
	"fmt"

	"github.com/intersect/anzard/pkg/survey"
)

// Failure is one violated rule.
type Failure struct {
	Rule    *Rule
	Message string
}

// Evaluator runs stored rules against answers. It holds no per-evaluation
// state, so one evaluator can serve many responses concurrently as long as
// each response is not mutated while it is checked.
type Evaluator struct {
	registry *Registry
	repo     *Repository
}

// NewEvaluator binds a checker registry to a rule store.
func NewEvaluator(reg *Registry, repo *Repository) *Evaluator {
	return &Evaluator{registry: reg, repo: repo}
}

// Repository returns the rule store the evaluator reads.
func (e *Evaluator) Repository() *Repository {
	return e.repo
}

// Rule resolves a referenced rule for composite checkers.
func (e *Evaluator) Rule(id int64) (*Rule, bool) {
	return e.repo.Rule(id)
}

// Check runs every primary rule for the answer's question and returns the
// failure messages in rule definition order.
func (e *Evaluator) Check(answer survey.Answer) []string {
	failures := e.Failures(answer)
	if len(failures) == 0 {
		return nil
	}
	msgs := make([]string, len(failures))
	for i, f := range failures {
		msgs[i] = f.Message
	}
	return msgs
}

// Failures is Check with the failing rule attached to each message.
func (e *Evaluator) Failures(answer survey.Answer) []Failure {
	q := answer.Question()
	if q == nil {
		return nil
	}
	var out []Failure
	for _, rule := range e.repo.PrimaryFor(q.ID) {
		if msg, failed := e.CheckOne(rule, answer, false); failed {
			out = append(out, Failure{Rule: rule, Message: msg})
		}
	}
	return out
}

// CheckQuestion checks the answer (possibly absent) to q on resp.
func (e *Evaluator) CheckQuestion(resp *survey.Response, q *survey.Question) []Failure {
	return e.Failures(resp.AnswerToQuestion(q))
}

// CheckOne evaluates a single rule. It returns the error message and true
// when the rule is violated; skipped and passing rules return "", false.
// A non-primary rule is skipped unless secondary is set.
//
// Panics with ErrNoChecker if no checker is registered for the rule kind,
// and with ErrWrongQuestionCode or ErrUnknownRuleReference when a rule that
// bypassed load-time validation reaches evaluation.
func (e *Evaluator) CheckOne(rule *Rule, answer survey.Answer, secondary bool) (string, bool) {
	if !rule.Primary && !secondary {
		return "", false
	}

	resp := answer.Response()
	var related survey.Answer
	if rule.RelatedQuestionID != 0 && resp != nil {
		related = resp.AnswerTo(rule.RelatedQuestionID)
	}

	if !answer.IsWellFormed() && !rule.Kind.AppliesWhenAnswerAbsent() {
		return "", false
	}
	if rule.RelatedQuestionID != 0 && !related.IsWellFormed() && !rule.Kind.AppliesWhenRelatedAbsent() {
		return "", false
	}

	check, ok := e.registry.Checker(rule.Kind)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrNoChecker, rule.Kind))
	}

	in := Input{
		Rule:     rule,
		Answer:   answer,
		Related:  related,
		Response: resp,
		runner:   e,
	}
	if check(in) {
		return "", false
	}
	return rule.Message(), true
}
