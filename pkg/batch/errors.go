package batch

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyProcessed = errors.New("batch has already been processed, cannot reprocess")
	ErrBadFormat        = errors.New("not a valid CSV file")
	ErrNoKeyColumn      = errors.New("key column missing")
	ErrEmpty            = errors.New("file contains no data")
)

// NoTransitionError indicates the lifecycle has no transition for an event
// in the current status.
type NoTransitionError struct {
	Status Status
	Event  Event
}

func (e *NoTransitionError) Error() string {
	return fmt.Sprintf("no transition available from status '%s' for event '%s'", e.Status, e.Event)
}

// TransitionRejectedError indicates every candidate transition was blocked
// by its guards.
type TransitionRejectedError struct {
	Status Status
	Event  Event
}

func (e *TransitionRejectedError) Error() string {
	return fmt.Sprintf("transition from status '%s' for event '%s' was rejected by guards", e.Status, e.Event)
}

func IsNoTransitionError(err error) bool {
	var e *NoTransitionError
	return errors.As(err, &e)
}

func IsTransitionRejectedError(err error) bool {
	var e *TransitionRejectedError
	return errors.As(err, &e)
}
