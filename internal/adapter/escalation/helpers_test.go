package escalation

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/thushan/ladder/internal/adapter/handler"
	"github.com/thushan/ladder/internal/core/domain"
	"github.com/thushan/ladder/internal/logger"
)

func newTestLogger() logger.StyledLogger {
	return logger.NewPlainStyledLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// countingHandler is an exact-match tier that counts how often it served.
type countingHandler struct {
	*handler.TierHandler
	served atomic.Int64
}

func newCountingHandler(name string, severities ...domain.Severity) *countingHandler {
	return &countingHandler{TierHandler: handler.NewTierHandler(name, "", severities...)}
}

func (h *countingHandler) Serve(ctx context.Context, req domain.Request) domain.ServiceRecord {
	h.served.Add(1)
	return h.TierHandler.Serve(ctx, req)
}
