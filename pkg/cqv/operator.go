package cqv

import (
	"fmt"
	"strings"

	"github.com/intersect/anzard/pkg/survey"
)

// Operator is the closed set of comparison operators a rule may name.
type Operator uint8

const (
	OpNone Operator = iota
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var operatorSymbols = map[Operator]string{
	OpEq: "==",
	OpNe: "!=",
	OpLt: "<",
	OpLe: "<=",
	OpGt: ">",
	OpGe: ">=",
}

// SafeOperators lists the operator symbols accepted in rule definitions.
var SafeOperators = []string{"==", "<=", ">=", "<", ">", "!="}

func (o Operator) String() string {
	if s, ok := operatorSymbols[o]; ok {
		return s
	}
	return ""
}

// ParseOperator maps a whitelisted symbol onto Operator. Blank input yields OpNone.
func ParseOperator(s string) (Operator, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return OpNone, nil
	}
	for op, sym := range operatorSymbols {
		if sym == s {
			return op, nil
		}
	}
	return OpNone, fmt.Errorf("%w: %s not included in %v", ErrUnsafeOperator, s, SafeOperators)
}

// Compare applies op to lhs and rhs. It fails closed: an unknown operator or
// values of different kinds yield false.
func Compare(lhs survey.Value, op Operator, rhs survey.Value) bool {
	c, ok := lhs.Compare(rhs)
	if !ok {
		return false
	}
	switch op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGe:
		return c >= 0
	default:
		return false
	}
}

// SetOperator is the closed set of set-membership operators.
type SetOperator uint8

const (
	SetNone SetOperator = iota
	SetIncluded
	SetExcluded
	SetRange
	SetBetween
)

var setOperatorNames = map[SetOperator]string{
	SetIncluded: "included",
	SetExcluded: "excluded",
	SetRange:    "range",
	SetBetween:  "between",
}

func (o SetOperator) String() string {
	return setOperatorNames[o]
}

// ParseSetOperator maps a set operator name onto SetOperator. Blank input yields SetNone.
func ParseSetOperator(s string) (SetOperator, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SetNone, nil
	}
	for op, name := range setOperatorNames {
		if name == s {
			return op, nil
		}
	}
	return SetNone, fmt.Errorf("%w: %s", ErrInvalidSetOperator, s)
}

// SetMeetsCondition tests v against set. Range is inclusive and Between is
// exclusive; both use the first and last declared elements as bounds, without
// sorting, and need at least two elements. An empty set, a zero v or an
// unknown operator yield false.
func SetMeetsCondition(set []survey.Value, op SetOperator, v survey.Value) bool {
	if len(set) == 0 || v.IsZero() {
		return false
	}
	switch op {
	case SetIncluded:
		return contains(set, v)
	case SetExcluded:
		return !contains(set, v)
	case SetRange:
		if len(set) < 2 {
			return false
		}
		return Compare(v, OpGe, set[0]) && Compare(v, OpLe, set[len(set)-1])
	case SetBetween:
		if len(set) < 2 {
			return false
		}
		return Compare(v, OpGt, set[0]) && Compare(v, OpLt, set[len(set)-1])
	default:
		return false
	}
}

func contains(set []survey.Value, v survey.Value) bool {
	for _, s := range set {
		if s.Equal(v) {
			return true
		}
	}
	return false
}
