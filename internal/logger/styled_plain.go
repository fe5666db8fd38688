package logger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thushan/ladder/internal/core/domain"
)

// PlainStyledLogger implements StyledLogger without formatting
type PlainStyledLogger struct {
	logger *slog.Logger
}

func NewPlainStyledLogger(logger *slog.Logger) *PlainStyledLogger {
	return &PlainStyledLogger{
		logger: logger,
	}
}

func (sl *PlainStyledLogger) Debug(msg string, args ...any) {
	sl.logger.Debug(msg, args...)
}

func (sl *PlainStyledLogger) Info(msg string, args ...any) {
	sl.logger.Info(msg, args...)
}

func (sl *PlainStyledLogger) Warn(msg string, args ...any) {
	sl.logger.Warn(msg, args...)
}

func (sl *PlainStyledLogger) Error(msg string, args ...any) {
	sl.logger.Error(msg, args...)
}

func (sl *PlainStyledLogger) Trace(ctx context.Context, msg string, args ...any) {
	sl.logger.DebugContext(FileOnly(ctx), msg, args...)
}

func (sl *PlainStyledLogger) InfoWithCount(msg string, count int, args ...any) {
	sl.logger.Info(fmt.Sprintf("%s (%d)", msg, count), args...)
}

func (sl *PlainStyledLogger) InfoWithHandler(msg string, handler string, args ...any) {
	sl.logger.Info(fmt.Sprintf("%s %s", msg, handler), args...)
}

func (sl *PlainStyledLogger) WarnWithHandler(msg string, handler string, args ...any) {
	sl.logger.Warn(fmt.Sprintf("%s %s", msg, handler), args...)
}

func (sl *PlainStyledLogger) InfoOutcome(msg string, outcome domain.Outcome, args ...any) {
	sl.logger.Info(fmt.Sprintf("%s %s", msg, outcome.HandledBy), outcomeArgs(outcome, args)...)
}

func (sl *PlainStyledLogger) WarnExhausted(msg string, req domain.Request, args ...any) {
	sl.logger.Warn(msg, requestArgs(req, append([]any{"severity", int(req.Severity())}, args...))...)
}

func (sl *PlainStyledLogger) GetUnderlying() *slog.Logger {
	return sl.logger
}

func (sl *PlainStyledLogger) With(args ...any) StyledLogger {
	return &PlainStyledLogger{
		logger: sl.logger.With(args...),
	}
}
