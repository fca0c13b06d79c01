package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/intersect/anzard/pkg/logger"
	"github.com/intersect/anzard/pkg/survey"
	"github.com/intersect/anzard/pkg/validation"
)

// Processor validates batch files against one survey.
type Processor struct {
	catalog   *survey.Survey
	session   *validation.Session
	log       *slog.Logger
	year      int
	keyColumn string
	workers   int
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.log = l
		}
	}
}

// WithYearOfRegistration sets the registration year given to every
// response. The default is the current year.
func WithYearOfRegistration(year int) Option {
	return func(p *Processor) { p.year = year }
}

// WithKeyColumn overrides DefaultKeyColumn.
func WithKeyColumn(column string) Option {
	return func(p *Processor) {
		if column != "" {
			p.keyColumn = column
		}
	}
}

// WithWorkers bounds how many records are validated at once. The default is
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
	}
}

// NewProcessor creates a processor for catalog. It panics on a nil catalog
// or session.
func NewProcessor(catalog *survey.Survey, session *validation.Session, opts ...Option) *Processor {
	if catalog == nil || session == nil {
		panic("batch: catalog and session are required")
	}
	p := &Processor{
		catalog:   catalog,
		session:   session,
		log:       logger.Discard(),
		year:      time.Now().Year(),
		keyColumn: DefaultKeyColumn,
		workers:   runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process reads a CSV batch file from src and validates every record. File
// level problems (bad format, no key column, no data) fail the batch with
// the matching message and a nil error. An error is returned only when the
// batch was already processed or ctx ended; the batch then keeps its status.
func (p *Processor) Process(ctx context.Context, b *Batch, src io.Reader) error {
	if b.Status().Terminal() {
		return ErrAlreadyProcessed
	}

	records, err := ReadRecords(src, p.keyColumn)
	if err != nil {
		ctx = logger.WithBatchID(ctx, b.ID)
		msg := MessageBadFormat
		switch {
		case errors.Is(err, ErrEmpty):
			msg = MessageEmpty
		case errors.Is(err, ErrNoKeyColumn):
			msg = fmt.Sprintf(MessageNoKeyColumn, p.keyColumn)
		}
		p.log.InfoContext(ctx, "batch file rejected", logger.Error(err))
		b.SurveyID = p.catalog.ID
		b.KeyColumn = p.keyColumn
		return p.settle(ctx, b, b.reject(ctx, msg))
	}
	return p.ProcessRecords(ctx, b, records)
}

// ProcessRecords validates already parsed records. Records are validated
// concurrently; results keep file order.
func (p *Processor) ProcessRecords(ctx context.Context, b *Batch, records []Record) error {
	if b.Status().Terminal() {
		return ErrAlreadyProcessed
	}
	ctx = logger.WithBatchID(ctx, b.ID)
	b.SurveyID = p.catalog.ID
	b.KeyColumn = p.keyColumn

	if len(records) == 0 {
		return p.settle(ctx, b, b.reject(ctx, MessageEmpty))
	}

	start := time.Now()
	p.log.InfoContext(ctx, "processing batch",
		logger.SurveyID(p.catalog.ID),
		logger.Count("records", len(records)),
	)

	results := make([]RecordResult, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.validate(gctx, rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	b.Records = results
	err := b.finish(ctx)
	p.log.InfoContext(ctx, "finished processing batch",
		logger.Status(b.Status().String()),
		logger.Count("records", b.RecordCount()),
		logger.Count("problem_records", b.ProblemRecordCount()),
		logger.Duration(time.Since(start)),
	)
	return p.settle(ctx, b, err)
}

func (p *Processor) validate(ctx context.Context, rec Record) RecordResult {
	key := rec.Key(p.keyColumn)
	rr := RecordResult{Line: rec.Line, Key: key, Values: rec.Values}
	if key == "" {
		return rr
	}
	resp := survey.NewResponse(p.catalog, key, p.year)
	resp.BuildAnswersFromMap(rec.Values)
	rr.Result = p.session.Run(ctx, resp)
	return rr
}

// settle maps lifecycle errors onto the public contract.
func (p *Processor) settle(ctx context.Context, b *Batch, err error) error {
	if err == nil {
		return nil
	}
	if IsNoTransitionError(err) {
		return errors.Join(ErrAlreadyProcessed, err)
	}
	p.log.ErrorContext(ctx, "batch status change failed", logger.Error(err))
	return err
}
