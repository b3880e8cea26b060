package logs

import (
	"context"
	"log/slog"
)

type runKey struct{}

// WithRun tags every record logged with ctx by the run id.
func WithRun(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runKey{}, id)
}

// RunID returns the run id stored by WithRun.
func RunID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runKey{}).(string)
	return id, ok
}

// Handler adds the run id carried by the context to each record.
type Handler struct {
	slog.Handler
}

// Handle adds the run attribute and passes the record on.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if id, ok := RunID(ctx); ok {
		record.Add("run", id)
	}
	return h.Handler.Handle(ctx, record)
}

// WithAttrs keeps the run attribute on the derived handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup keeps the run attribute on the derived handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{Handler: h.Handler.WithGroup(name)}
}
