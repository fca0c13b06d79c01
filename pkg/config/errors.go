package config

import "errors"

var (
	// ErrParsingConfig wraps env parse failures, missing required variables included.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrLoadingEnvFile is returned when an explicitly named .env file cannot be read.
	ErrLoadingEnvFile = errors.New("failed to load env file")

	// ErrNilPointer is returned when Load is given a nil pointer.
	ErrNilPointer = errors.New("nil pointer provided to config loader")
)
