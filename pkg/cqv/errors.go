package cqv

import "errors"

// Configuration errors: returned while rule definitions are validated or loaded.
var (
	ErrUnknownRule           = errors.New("unknown rule kind")
	ErrUnsafeOperator        = errors.New("operator not in whitelist")
	ErrInvalidSetOperator    = errors.New("set operator not in whitelist")
	ErrMissingQuestion       = errors.New("rule has no target question")
	ErrRelatedExclusivity    = errors.New("exactly one of related question, related question list or related rule list is required")
	ErrUnexpectedRelated     = errors.New("rule takes no related question, list or rule")
	ErrInvalidOffset         = errors.New("constant offset must be an integer or decimal")
	ErrMissingErrorMessage   = errors.New("primary rule requires an error message")
	ErrWrongQuestionCode     = errors.New("rule requires a particular question code")
	ErrWrongQuestionType     = errors.New("rule requires a particular question type")
	ErrRelatedCount          = errors.New("wrong number of related questions or rules")
	ErrUnknownQuestion       = errors.New("rule references an unknown question")
	ErrUnknownRuleReference  = errors.New("rule references an unknown rule")
	ErrRuleCycle             = errors.New("composite rule references itself")
	ErrDuplicateRule         = errors.New("duplicate rule id")
	ErrDuplicateChecker      = errors.New("checker already registered for rule kind")
	ErrMissingSetOrOperator  = errors.New("set rule requires a set and a set operator")
	ErrMissingOperator       = errors.New("rule requires an operator")
	ErrMissingConditionalOp  = errors.New("rule requires a conditional operator")
	ErrMissingConditionalSet = errors.New("rule requires a conditional set and set operator")
)

// ErrNoChecker is returned by Registry.Supports for rule kinds without a
// checker. The evaluator panics with it when such a rule reaches evaluation
// anyway, which means Supports was skipped.
var ErrNoChecker = errors.New("no checker registered")
