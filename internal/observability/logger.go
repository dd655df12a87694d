package observability

import (
	"context"
	"log/slog"
	"os"
)

type ctxKey string

const (
	ctxKeyQueryID ctxKey = "query_id"
)

// basic global logger, JSON to stdout.
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

func Logger() *slog.Logger {
	return logger
}

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *slog.Logger {
	return logger.With(kv...)
}

// WithQueryID stores a query_id in the context so every component's log
// lines for a single process_query call can be correlated.
func WithQueryID(ctx context.Context, queryID string) context.Context {
	return context.WithValue(ctx, ctxKeyQueryID, queryID)
}

// LoggerFromContext adds query_id if present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	queryID, _ := ctx.Value(ctxKeyQueryID).(string)
	if queryID == "" {
		return logger
	}
	return logger.With("query_id", queryID)
}
