package logger

import (
	"context"
	"log/slog"

	"github.com/thushan/ladder/internal/core/domain"
	"github.com/thushan/ladder/internal/util"
	"github.com/thushan/ladder/theme"
)

// StyledLogger is what the rest of ladder logs through. The pretty variant
// colours handler names and severities, the plain one keeps text as-is.
type StyledLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// Trace logs at debug level, kept off the terminal when a log file is configured.
	Trace(ctx context.Context, msg string, args ...any)

	InfoWithCount(msg string, count int, args ...any)
	InfoWithHandler(msg string, handler string, args ...any)
	WarnWithHandler(msg string, handler string, args ...any)
	InfoOutcome(msg string, outcome domain.Outcome, args ...any)
	WarnExhausted(msg string, req domain.Request, args ...any)

	GetUnderlying() *slog.Logger
	With(args ...any) StyledLogger
}

func NewWithTheme(cfg *Config) (*slog.Logger, StyledLogger, func(), error) {
	logger, cleanup, err := New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	var styled StyledLogger
	if util.ShouldUseColors() {
		styled = NewPrettyStyledLogger(logger, theme.GetTheme(cfg.Theme))
	} else {
		styled = NewPlainStyledLogger(logger)
	}

	return logger, styled, cleanup, nil
}

func outcomeArgs(outcome domain.Outcome, args []any) []any {
	all := make([]any, 0, len(args)+8)
	all = append(all,
		"request_id", outcome.Request.ID(),
		"severity", int(outcome.Request.Severity()),
		"outcome", string(outcome.Kind),
		"hops", outcome.Hops,
	)
	return append(all, args...)
}

func requestArgs(req domain.Request, args []any) []any {
	all := make([]any, 0, len(args)+4)
	all = append(all,
		"request_id", req.ID(),
		"description", req.Description(),
	)
	return append(all, args...)
}
