package logger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thushan/ladder/internal/core/domain"
	"github.com/thushan/ladder/theme"
)

type PrettyStyledLogger struct {
	logger *slog.Logger
	Theme  *theme.Theme
}

func NewPrettyStyledLogger(logger *slog.Logger, theme *theme.Theme) *PrettyStyledLogger {
	return &PrettyStyledLogger{
		logger: logger,
		Theme:  theme,
	}
}

func (sl *PrettyStyledLogger) Debug(msg string, args ...any) {
	sl.logger.Debug(msg, args...)
}

func (sl *PrettyStyledLogger) Info(msg string, args ...any) {
	sl.logger.Info(msg, args...)
}

func (sl *PrettyStyledLogger) Warn(msg string, args ...any) {
	sl.logger.Warn(msg, args...)
}

func (sl *PrettyStyledLogger) Error(msg string, args ...any) {
	sl.logger.Error(msg, args...)
}

func (sl *PrettyStyledLogger) Trace(ctx context.Context, msg string, args ...any) {
	sl.logger.DebugContext(FileOnly(ctx), msg, args...)
}

func (sl *PrettyStyledLogger) InfoWithCount(msg string, count int, args ...any) {
	styledMsg := fmt.Sprintf("%s %s", msg, sl.Theme.Counts.Sprint("(", count, ")"))
	sl.logger.Info(styledMsg, args...)
}

func (sl *PrettyStyledLogger) InfoWithHandler(msg string, handler string, args ...any) {
	styledMsg := fmt.Sprintf("%s %s", msg, sl.Theme.Handler.Sprint(handler))
	sl.logger.Info(styledMsg, args...)
}

func (sl *PrettyStyledLogger) WarnWithHandler(msg string, handler string, args ...any) {
	styledMsg := fmt.Sprintf("%s %s", msg, sl.Theme.Handler.Sprint(handler))
	sl.logger.Warn(styledMsg, args...)
}

func (sl *PrettyStyledLogger) InfoOutcome(msg string, outcome domain.Outcome, args ...any) {
	styledMsg := fmt.Sprintf("%s %s %s",
		msg,
		sl.Theme.Handler.Sprint(outcome.HandledBy),
		sl.Theme.Severity.Sprint("[sev ", int(outcome.Request.Severity()), "]"))
	sl.logger.Info(styledMsg, outcomeArgs(outcome, args)...)
}

func (sl *PrettyStyledLogger) WarnExhausted(msg string, req domain.Request, args ...any) {
	styledMsg := fmt.Sprintf("%s %s",
		sl.Theme.Exhausted.Sprint(msg),
		sl.Theme.Severity.Sprint("[sev ", int(req.Severity()), "]"))
	sl.logger.Warn(styledMsg, requestArgs(req, args)...)
}

func (sl *PrettyStyledLogger) GetUnderlying() *slog.Logger {
	return sl.logger
}

func (sl *PrettyStyledLogger) With(args ...any) StyledLogger {
	return &PrettyStyledLogger{
		logger: sl.logger.With(args...),
		Theme:  sl.Theme,
	}
}
