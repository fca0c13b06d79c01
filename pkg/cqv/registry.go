package cqv

import (
	"errors"
	"fmt"
	"slices"

	"github.com/intersect/anzard/pkg/survey"
)

// Checker is a rule predicate. It returns true when the rule is satisfied or
// not applicable and false when it is violated.
type Checker func(in Input) bool

// Input is everything a checker may read for a single evaluation.
type Input struct {
	Rule     *Rule
	Answer   survey.Answer
	Related  survey.Answer
	Response *survey.Response

	runner subRuleRunner
}

// subRuleRunner resolves and runs referenced rules for composite kinds.
type subRuleRunner interface {
	Rule(id int64) (*Rule, bool)
	CheckOne(rule *Rule, answer survey.Answer, secondary bool) (string, bool)
}

// Params is shorthand for in.Rule.Params.
func (in Input) Params() Params {
	return in.Rule.Params
}

// AnswerTo looks up a sibling answer on the in-memory response.
func (in Input) AnswerTo(questionID int64) survey.Answer {
	if in.Response == nil {
		return survey.Answer{}
	}
	return in.Response.AnswerTo(questionID)
}

// Comparable looks up a sibling answer by code; ok is false when absent or malformed.
func (in Input) Comparable(code string) (survey.Value, bool) {
	if in.Response == nil {
		return survey.Value{}, false
	}
	return in.Response.ComparableForCode(code)
}

// Registry maps rule kinds to checkers. It is built once at startup and only
// read afterwards, so one registry may serve concurrent evaluations.
type Registry struct {
	checkers map[Kind]Checker
}

// Option configures a Registry at construction.
type Option func(*Registry)

// WithChecker registers an extra checker. Panics on an undeclared or
// already-registered kind, since a broken registry must not start.
func WithChecker(kind Kind, c Checker) Option {
	return func(r *Registry) {
		if err := r.Register(kind, c); err != nil {
			panic(err)
		}
	}
}

// WithFertilityRules adds the ANZARD special rules.
func WithFertilityRules() Option {
	return func(r *Registry) {
		for kind, c := range fertilityCheckers() {
			if err := r.Register(kind, c); err != nil {
				panic(err)
			}
		}
	}
}

// WithNeonatalRules adds the ANZNN special rules.
func WithNeonatalRules() Option {
	return func(r *Registry) {
		for kind, c := range neonatalCheckers() {
			if err := r.Register(kind, c); err != nil {
				panic(err)
			}
		}
	}
}

// NewRegistry returns a registry holding the generic checkers plus whatever
// the options add.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{checkers: make(map[Kind]Checker, len(kindSpecs))}
	for kind, c := range genericCheckers() {
		r.checkers[kind] = c
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register binds c to kind. Registration is one-shot per kind.
func (r *Registry) Register(kind Kind, c Checker) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRule, kind)
	}
	if c == nil {
		return fmt.Errorf("%w: nil checker for %s", ErrNoChecker, kind)
	}
	if _, ok := r.checkers[kind]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, kind)
	}
	r.checkers[kind] = c
	return nil
}

// Checker returns the checker for kind.
func (r *Registry) Checker(kind Kind) (Checker, bool) {
	c, ok := r.checkers[kind]
	return c, ok
}

// Kinds lists registered kinds, sorted.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, 0, len(r.checkers))
	for k := range r.checkers {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Supports checks that every kind used in repo has a checker. Each missing
// kind is reported once, wrapped with ErrNoChecker, and the errors are joined.
// Run it when rules are loaded so evaluation never meets an unknown kind.
func (r *Registry) Supports(repo *Repository) error {
	var errs []error
	seen := make(map[Kind]bool)
	for _, rule := range repo.All() {
		if seen[rule.Kind] {
			continue
		}
		seen[rule.Kind] = true
		if _, ok := r.checkers[rule.Kind]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s used by %s", ErrNoChecker, rule.Kind, rule))
		}
	}
	return errors.Join(errs...)
}
