// Package logger builds *slog.Logger values for the validation tools and
// provides attribute helpers so records use the same keys everywhere.
//
// New takes functional options for format (json or text), level, output and
// static attributes. Every record passes through a handler that
// runs ContextExtractor callbacks at Handle time; a batch id stored with
// WithBatchID is always extracted.
//
//	log := logger.New(
//		logger.WithFormat(logger.FormatText),
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithService("anzard"),
//	)
//	ctx := logger.WithBatchID(ctx, batch.ID)
//	log.InfoContext(ctx, "batch processed",
//		logger.SurveyID(s.ID),
//		logger.Count("records", n),
//	)
//
// ParseFormat and ParseLevel turn configuration strings into options.
// Discard returns a logger for components that were given none.
package logger
