// Package cqv implements cross-question validation: declarative rules that
// check consistency between answers within one survey response.
//
// A Rule binds a rule Kind to a target question, at most one kind of related
// reference (a single question, an ordered question list, or an ordered list
// of other rules) and comparison parameters. Rules are validated when they
// are added to a Repository; Repository.Validate then checks references
// between rules and rejects cycles.
//
// # Evaluation
//
// An Evaluator joins a Registry of checkers with a Repository:
//
//	reg := cqv.NewRegistry(cqv.WithFertilityRules())
//	repo := cqv.NewRepository(catalog)
//	_, err := repo.Add(&cqv.Rule{
//		Kind:              cqv.KindComparison,
//		QuestionID:        etDate.ID,
//		RelatedQuestionID: opuDate.ID,
//		Operator:          cqv.OpGe,
//		ErrorMessage:      "ET_DATE must be on or after OPU_DATE",
//		Primary:           true,
//	})
//	...
//	ev := cqv.NewEvaluator(reg, repo)
//	msgs := ev.Check(resp.AnswerToCode("ET_DATE"))
//
// For each rule CheckOne applies a fixed policy before the checker runs:
// non-primary rules are skipped unless pulled in by a composite, and a rule
// is skipped when its target (or single related) answer is absent or
// malformed, except for the kinds listed as applying in that case.
//
// # Operators
//
// Operators and set operators are closed enumerations. Unknown names are
// rejected by ParseOperator and ParseSetOperator at load time; Compare and
// SetMeetsCondition return false for anything they cannot evaluate.
//
// # Errors
//
// Configuration errors are returned from Rule.Validate, Repository.Add and
// Repository.Validate and wrap the sentinels in errors.go. A special checker
// invoked on the wrong question, or a kind with no registered checker, is a
// wiring bug and panics.
package cqv
