package cqv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/intersect/anzard/pkg/survey"
)

// Repository is the rule definition store for one survey. Rules keep the
// order in which they were added; that order is the order failures are
// reported in.
type Repository struct {
	catalog *survey.Survey
	rules   map[int64]*Rule
	labels  map[string]*Rule
	ordered []*Rule
	primary map[int64][]*Rule
	nextID  int64
}

// NewRepository returns an empty store bound to catalog. A nil catalog skips
// question checks, which is only useful in tests.
func NewRepository(catalog *survey.Survey) *Repository {
	return &Repository{
		catalog: catalog,
		rules:   make(map[int64]*Rule),
		labels:  make(map[string]*Rule),
		primary: make(map[int64][]*Rule),
	}
}

// Catalog returns the survey the rules are bound to.
func (r *Repository) Catalog() *survey.Survey {
	return r.catalog
}

// Add validates rule and stores it. A zero ID is assigned the next free one.
// References to other rules are checked later by Validate, since composites
// may be added before the rules they reference.
func (r *Repository) Add(rule *Rule) (*Rule, error) {
	if rule == nil {
		return nil, ErrMissingQuestion
	}
	if rule.ID == 0 {
		r.nextID++
		for r.rules[r.nextID] != nil {
			r.nextID++
		}
		rule.ID = r.nextID
	} else if _, ok := r.rules[rule.ID]; ok {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateRule, rule.ID)
	}
	if rule.ID > r.nextID {
		r.nextID = rule.ID
	}

	if err := rule.Validate(r.catalog); err != nil {
		return nil, fmt.Errorf("rule %s: %w", rule, err)
	}

	label := strings.ToLower(strings.TrimSpace(rule.Label))
	if label != "" {
		if _, ok := r.labels[label]; ok {
			return nil, fmt.Errorf("%w: label %q", ErrDuplicateRule, rule.Label)
		}
		r.labels[label] = rule
	}

	r.rules[rule.ID] = rule
	r.ordered = append(r.ordered, rule)
	if rule.Primary {
		r.primary[rule.QuestionID] = append(r.primary[rule.QuestionID], rule)
	}
	return rule, nil
}

// Validate checks the cross-rule invariants: every referenced rule exists and
// no composite reaches itself through its references.
func (r *Repository) Validate() error {
	var errs []error
	for _, rule := range r.ordered {
		for _, id := range rule.RelatedRuleIDs {
			if _, ok := r.rules[id]; !ok {
				errs = append(errs, fmt.Errorf("%w: %s references %d", ErrUnknownRuleReference, rule, id))
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[int64]int, len(r.rules))
	var visit func(rule *Rule) error
	visit = func(rule *Rule) error {
		switch state[rule.ID] {
		case inProgress:
			return fmt.Errorf("%w: %s", ErrRuleCycle, rule)
		case done:
			return nil
		}
		state[rule.ID] = inProgress
		for _, id := range rule.RelatedRuleIDs {
			if err := visit(r.rules[id]); err != nil {
				return err
			}
		}
		state[rule.ID] = done
		return nil
	}
	for _, rule := range r.ordered {
		if err := visit(rule); err != nil {
			return err
		}
	}
	return nil
}

// Rule looks a rule up by id.
func (r *Repository) Rule(id int64) (*Rule, bool) {
	rule, ok := r.rules[id]
	return rule, ok
}

// RuleWithLabel looks a rule up by its label, case-insensitively.
func (r *Repository) RuleWithLabel(label string) (*Rule, bool) {
	rule, ok := r.labels[strings.ToLower(strings.TrimSpace(label))]
	return rule, ok
}

// PrimaryFor returns the primary rules targeting questionID in definition order.
func (r *Repository) PrimaryFor(questionID int64) []*Rule {
	return r.primary[questionID]
}

// HasPrimary reports whether any primary rule targets questionID.
func (r *Repository) HasPrimary(questionID int64) bool {
	return len(r.primary[questionID]) > 0
}

// All returns every rule in definition order.
func (r *Repository) All() []*Rule {
	return append([]*Rule(nil), r.ordered...)
}

// Len is the number of stored rules.
func (r *Repository) Len() int {
	return len(r.ordered)
}
