package logger

import (
	"context"
	"errors"
	"log/slog"
)

type routeKey struct{}

// FileOnly marks ctx so records logged with it skip the terminal when a log
// file is configured. Without a log file they reach the terminal as usual.
func FileOnly(ctx context.Context) context.Context {
	return context.WithValue(ctx, routeKey{}, true)
}

func isFileOnly(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	only, _ := ctx.Value(routeKey{}).(bool)
	return only
}

// routingHandler tees records to the terminal and the log file.
type routingHandler struct {
	terminal slog.Handler
	file     slog.Handler
}

func (h *routingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if isFileOnly(ctx) {
		return h.file.Enabled(ctx, level)
	}
	return h.terminal.Enabled(ctx, level) || h.file.Enabled(ctx, level)
}

func (h *routingHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	if !isFileOnly(ctx) && h.terminal.Enabled(ctx, record.Level) {
		errs = append(errs, h.terminal.Handle(ctx, record.Clone()))
	}
	if h.file.Enabled(ctx, record.Level) {
		errs = append(errs, h.file.Handle(ctx, record))
	}
	return errors.Join(errs...)
}

func (h *routingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &routingHandler{
		terminal: h.terminal.WithAttrs(attrs),
		file:     h.file.WithAttrs(attrs),
	}
}

func (h *routingHandler) WithGroup(name string) slog.Handler {
	return &routingHandler{
		terminal: h.terminal.WithGroup(name),
		file:     h.file.WithGroup(name),
	}
}
