package audit

import (
	"context"
	"errors"

	"github.com/thushan/ladder/internal/core/domain"
	"github.com/thushan/ladder/internal/core/ports"
	"github.com/thushan/ladder/internal/logger"
)

// LogRecorder writes each service record to the application log.
type LogRecorder struct {
	logger logger.StyledLogger
}

func NewLogRecorder(log logger.StyledLogger) *LogRecorder {
	return &LogRecorder{logger: log}
}

func (l *LogRecorder) Record(ctx context.Context, record domain.ServiceRecord) error {
	if record.Outcome == domain.OutcomeHandled {
		l.logger.InfoWithHandler(record.Message, record.Handler,
			"request_id", record.RequestID,
			"severity", int(record.Severity))
		return nil
	}
	l.logger.Warn(record.Message,
		"request_id", record.RequestID,
		"severity", int(record.Severity))
	return nil
}

// MultiRecorder hands every record to each recorder in turn. A failing
// recorder does not stop the rest; their errors are joined.
type MultiRecorder struct {
	recorders []ports.ServiceRecorder
}

func NewMultiRecorder(recorders ...ports.ServiceRecorder) *MultiRecorder {
	kept := make([]ports.ServiceRecorder, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			kept = append(kept, r)
		}
	}
	return &MultiRecorder{recorders: kept}
}

func (m *MultiRecorder) Record(ctx context.Context, record domain.ServiceRecord) error {
	var errs []error
	for _, r := range m.recorders {
		if err := r.Record(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiRecorder) Len() int {
	return len(m.recorders)
}
