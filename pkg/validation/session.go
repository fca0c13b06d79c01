package validation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/intersect/anzard/pkg/cqv"
	"github.com/intersect/anzard/pkg/logger"
	"github.com/intersect/anzard/pkg/survey"
)

// Session runs every applicable rule against a response.
type Session struct {
	evaluator *cqv.Evaluator
	log       *slog.Logger
	metrics   *Metrics
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the debug logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics enables outcome metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// NewSession binds a session to an evaluator.
func NewSession(ev *cqv.Evaluator, opts ...Option) *Session {
	s := &Session{evaluator: ev, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run validates resp. Every catalog question is visited in catalog order: a
// malformed answer yields a fatal format warning, and questions with at least
// one primary rule are checked even when unanswered. Running twice on an
// unchanged response yields the same result.
func (s *Session) Run(ctx context.Context, resp *survey.Response) *Result {
	start := time.Now()
	res := newResult(resp.ID, resp.RecordKey)
	repo := s.evaluator.Repository()

	for _, q := range resp.Survey.OrderedQuestions() {
		answer := resp.AnswerToQuestion(q)
		qr := QuestionResult{QuestionID: q.ID, Code: q.Code}

		if answer.IsMalformed() {
			qr.FatalWarnings = append(qr.FatalWarnings, InvalidAnswerMessage(q.Type))
			s.metrics.incMalformed(string(q.Type))
		}

		if repo.HasPrimary(q.ID) {
			for _, f := range s.evaluator.Failures(answer) {
				if f.Rule.Fatal {
					qr.FatalWarnings = append(qr.FatalWarnings, f.Message)
				} else {
					qr.Warnings = append(qr.Warnings, f.Message)
				}
				s.metrics.incRuleFailure(f.Rule.Kind.String(), f.Rule.Fatal)
				s.log.DebugContext(ctx, "rule failed",
					logger.ResponseID(resp.ID),
					logger.QuestionCode(q.Code),
					logger.RuleKind(f.Rule.Kind.String()),
					logger.RuleID(f.Rule.ID),
				)
			}
		}
		res.add(qr)
	}

	outcome := "clean"
	switch {
	case res.HasFatalWarnings():
		outcome = "fatal"
	case res.HasWarnings():
		outcome = "warnings"
	}
	s.metrics.observeSession(outcome, time.Since(start))
	s.log.DebugContext(ctx, "response validated",
		logger.ResponseID(resp.ID),
		logger.RecordKey(resp.RecordKey),
		logger.Status(outcome),
		logger.Count("warnings", res.WarningCount()),
		logger.Count("fatal_warnings", res.FatalWarningCount()),
	)
	return res
}

// InvalidAnswerMessage is the fatal warning for input that does not parse as t.
func InvalidAnswerMessage(t survey.QuestionType) string {
	var what string
	switch t {
	case survey.TypeInteger:
		what = "an integer"
	case survey.TypeDecimal:
		what = "a decimal"
	case survey.TypeDate:
		what = "a date"
	case survey.TypeTime:
		what = "a time"
	case survey.TypeChoice:
		what = "one of the listed options"
	default:
		what = "a " + string(t)
	}
	return fmt.Sprintf("Answer is invalid (must be %s)", what)
}
