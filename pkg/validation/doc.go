// Package validation runs the cross-question rules for whole responses.
//
// A Session visits every question of the response's survey in catalog order.
// Malformed answers produce a fatal format warning; questions that have at
// least one primary rule are checked through the cqv evaluator, whether or
// not they were answered. Failures of rules marked Fatal are fatal warnings,
// everything else is advisory.
//
//	sess := validation.NewSession(ev,
//		validation.WithLogger(log),
//		validation.WithMetrics(validation.NewMetrics(prometheus.DefaultRegisterer)),
//	)
//	res := sess.Run(ctx, resp)
//	if res.HasFatalWarnings() {
//		...
//	}
//
// Sessions hold no per-run state and may be shared between goroutines as
// long as each response is only touched by one of them.
package validation
