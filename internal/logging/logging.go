// Package for context-aware structured logging

package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type ctxKey string

const slogFields ctxKey = "slog_fields"

// Handler that includes attributes appended to the context via AppendCtx
type ContextHandler struct {
	slog.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		for _, v := range attrs {
			r.AddAttrs(v)
		}
	}
	return h.Handler.Handle(ctx, r)
}

// Appends a slog attribute to the context so that it is included in every
// record logged with that context
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	if v, ok := parent.Value(slogFields).([]slog.Attr); ok {
		v = append(v, attr)
		return context.WithValue(parent, slogFields, v)
	}

	v := []slog.Attr{attr}
	return context.WithValue(parent, slogFields, v)
}

// Constructs a debug-level logger writing to stderr
func New() *slog.Logger {
	return slog.New(&ContextHandler{
		Handler: slog.NewTextHandler(
			os.Stderr,
			&slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
	})
}

// Handler that discards all records
func NullLogger() slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1})
}
