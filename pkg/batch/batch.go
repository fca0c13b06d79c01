package batch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/intersect/anzard/pkg/validation"
)

// RecordResult is the validation outcome of one batch record.
type RecordResult struct {
	Line   int
	Key    string
	Values map[string]string
	// Result is nil for records without a key; those are never validated.
	Result *validation.Result
}

// MissingKey reports a record that was rejected for lacking its key.
func (r RecordResult) MissingKey() bool { return r.Result == nil }

// Problem reports a record with any message or without a key.
func (r RecordResult) Problem() bool {
	return r.Result == nil || !r.Result.Valid()
}

// Batch is one uploaded file and its processing outcome.
type Batch struct {
	ID          uuid.UUID
	FileName    string
	SurveyID    int64
	KeyColumn   string
	Message     string
	CreatedAt   time.Time
	ProcessedAt time.Time

	// Records holds per-record outcomes in file order once validated.
	Records []RecordResult

	failures  bool
	warnings  bool
	lifecycle *lifecycle
}

// New creates a batch in progress.
func New(fileName string) *Batch {
	return &Batch{
		ID:        uuid.New(),
		FileName:  fileName,
		KeyColumn: DefaultKeyColumn,
		CreatedAt: time.Now(),
		lifecycle: batchLifecycle(),
	}
}

// Status is the current processing status.
func (b *Batch) Status() Status { return b.lifecycle.Current() }

// Success reports a batch that processed without any message.
func (b *Batch) Success() bool { return b.Status() == StatusSuccess }

// RecordCount is the number of data rows validated.
func (b *Batch) RecordCount() int { return len(b.Records) }

// ProblemRecordCount is the number of records with messages or no key.
func (b *Batch) ProblemRecordCount() int {
	n := 0
	for _, r := range b.Records {
		if r.Problem() {
			n++
		}
	}
	return n
}

// HasReports reports whether the batch got as far as validating records.
func (b *Batch) HasReports() bool { return len(b.Records) > 0 }

func (b *Batch) reject(ctx context.Context, msg string) error {
	b.Message = msg
	b.ProcessedAt = time.Now()
	return b.lifecycle.Fire(ctx, EventReject, b)
}

func (b *Batch) finish(ctx context.Context) error {
	for _, r := range b.Records {
		switch {
		case r.MissingKey(), r.Result.HasFatalWarnings():
			b.failures = true
		case r.Result.HasWarnings():
			b.warnings = true
		}
	}
	b.ProcessedAt = time.Now()
	return b.lifecycle.Fire(ctx, EventFinish, b)
}
