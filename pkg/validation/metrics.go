package validation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts validation outcomes. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Rule failures by rule kind and severity (warning, fatal).
	RuleFailures *prometheus.CounterVec

	// Malformed answers by question type.
	MalformedAnswers *prometheus.CounterVec

	// Sessions by outcome (clean, warnings, fatal).
	Sessions *prometheus.CounterVec

	// Wall time of a full session run.
	SessionLatency prometheus.Histogram
}

// NewMetrics registers the validation metrics with reg. A nil reg creates
// unregistered collectors, which is what tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RuleFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "anzard_validation_rule_failures_total",
			Help: "Cross-question rule failures by rule kind and severity",
		}, []string{"rule", "severity"}),

		MalformedAnswers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "anzard_validation_malformed_answers_total",
			Help: "Answers that could not be parsed for their question type",
		}, []string{"type"}),

		Sessions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "anzard_validation_sessions_total",
			Help: "Validated responses by outcome",
		}, []string{"outcome"}),

		SessionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "anzard_validation_session_duration_seconds",
			Help:    "Duration of validating one response",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
	}
}

func (m *Metrics) incRuleFailure(kind string, fatal bool) {
	if m == nil {
		return
	}
	severity := "warning"
	if fatal {
		severity = "fatal"
	}
	m.RuleFailures.WithLabelValues(kind, severity).Inc()
}

func (m *Metrics) incMalformed(questionType string) {
	if m != nil {
		m.MalformedAnswers.WithLabelValues(questionType).Inc()
	}
}

func (m *Metrics) observeSession(outcome string, d time.Duration) {
	if m != nil {
		m.Sessions.WithLabelValues(outcome).Inc()
		m.SessionLatency.Observe(d.Seconds())
	}
}
