package batch

import (
	"context"
	"fmt"
	"sync"
)

// Status is the processing state of a batch.
type Status string

const (
	StatusInProgress Status = "In Progress"
	StatusFailed     Status = "Failed"
	StatusReview     Status = "Needs Review"
	StatusSuccess    Status = "Processed Successfully"
)

func (s Status) String() string { return string(s) }

// Terminal reports whether no further transition can leave s.
func (s Status) Terminal() bool { return s != StatusInProgress }

// Event triggers a status transition.
type Event string

const (
	// EventReject fails a batch before any record is validated.
	EventReject Event = "reject"
	// EventFinish classifies a batch after every record is validated.
	EventFinish Event = "finish"
)

// Outcome messages shown to the uploader.
const (
	MessageNoKeyColumn      = "The file you uploaded did not contain a %s column"
	MessageEmpty            = "The file you uploaded did not contain any data"
	MessageFailedValidation = "The file you uploaded did not pass validation. Please review the reports for details."
	MessageWarnings         = "The file you uploaded has one or more warnings. Please review the reports for details."
	MessageSuccess          = "Your file has been processed successfully"
	MessageBadFormat        = "The file you uploaded was not a valid CSV file"
)

// guard decides whether a transition may proceed for b.
type guard func(b *Batch) bool

// action runs before the status changes; an error aborts the transition.
type action func(ctx context.Context, from, to Status, b *Batch) error

type transition struct {
	from    Status
	to      Status
	event   Event
	guards  []guard
	actions []action
}

// lifecycle is a small guarded state machine. Several transitions may share
// a status and event; the first whose guards all pass wins.
type lifecycle struct {
	mu          sync.RWMutex
	current     Status
	transitions map[Status]map[Event][]transition
}

func newLifecycle(initial Status) *lifecycle {
	return &lifecycle{
		current:     initial,
		transitions: make(map[Status]map[Event][]transition),
	}
}

func (l *lifecycle) add(t transition) *lifecycle {
	if _, ok := l.transitions[t.from]; !ok {
		l.transitions[t.from] = make(map[Event][]transition)
	}
	l.transitions[t.from][t.event] = append(l.transitions[t.from][t.event], t)
	return l
}

func (l *lifecycle) Current() Status {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

func (l *lifecycle) Fire(ctx context.Context, event Event, b *Batch) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	candidates := l.transitions[l.current][event]
	if len(candidates) == 0 {
		return &NoTransitionError{Status: l.current, Event: event}
	}

	var chosen *transition
	for i, t := range candidates {
		if passes(t.guards, b) {
			chosen = &candidates[i]
			break
		}
	}
	if chosen == nil {
		return &TransitionRejectedError{Status: l.current, Event: event}
	}

	for _, act := range chosen.actions {
		if err := act(ctx, l.current, chosen.to, b); err != nil {
			return fmt.Errorf("action failed: %w", err)
		}
	}
	l.current = chosen.to
	return nil
}

func (l *lifecycle) CanFire(event Event, b *Batch) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, t := range l.transitions[l.current][event] {
		if passes(t.guards, b) {
			return true
		}
	}
	return false
}

func passes(guards []guard, b *Batch) bool {
	for _, g := range guards {
		if g != nil && !g(b) {
			return false
		}
	}
	return true
}

func hasFailures(b *Batch) bool { return b.failures }
func hasWarnings(b *Batch) bool { return b.warnings }

func setMessage(msg string) action {
	return func(_ context.Context, _, _ Status, b *Batch) error {
		b.Message = msg
		return nil
	}
}

// batchLifecycle wires the batch status graph: In Progress moves to exactly
// one terminal status and never leaves it.
func batchLifecycle() *lifecycle {
	return newLifecycle(StatusInProgress).
		add(transition{from: StatusInProgress, to: StatusFailed, event: EventReject}).
		add(transition{
			from: StatusInProgress, to: StatusFailed, event: EventFinish,
			guards:  []guard{hasFailures},
			actions: []action{setMessage(MessageFailedValidation)},
		}).
		add(transition{
			from: StatusInProgress, to: StatusReview, event: EventFinish,
			guards:  []guard{hasWarnings},
			actions: []action{setMessage(MessageWarnings)},
		}).
		add(transition{
			from: StatusInProgress, to: StatusSuccess, event: EventFinish,
			actions: []action{setMessage(MessageSuccess)},
		})
}
