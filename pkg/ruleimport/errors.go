package ruleimport

import "errors"

var (
	ErrMissingColumn       = errors.New("rule file is missing a required column")
	ErrUnknownQuestionCode = errors.New("unknown question code")
	ErrUnknownRuleLabel    = errors.New("unknown rule label")
	ErrDuplicateRuleLabel  = errors.New("duplicate rule label")
	ErrInvalidValue        = errors.New("invalid value")
	ErrMalformedFile       = errors.New("malformed rule file")
	ErrInvalidCatalog      = errors.New("invalid survey catalog")
)
