package logger

import (
	"context"
	"log/slog"
)

type batchIDKey struct{}

// WithBatchID stores a batch id in ctx. Every logger built by New adds it to
// records logged with that context.
func WithBatchID(ctx context.Context, id any) context.Context {
	return context.WithValue(ctx, batchIDKey{}, id)
}

// BatchIDFromContext returns the batch id stored by WithBatchID.
func BatchIDFromContext(ctx context.Context) (any, bool) {
	v := ctx.Value(batchIDKey{})
	return v, v != nil
}

func batchIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id, ok := BatchIDFromContext(ctx); ok {
		return BatchID(id), true
	}
	return slog.Attr{}, false
}
