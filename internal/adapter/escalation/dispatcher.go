package escalation

import (
	"context"
	"time"

	"github.com/thushan/ladder/internal/core/domain"
	"github.com/thushan/ladder/internal/core/ports"
	"github.com/thushan/ladder/internal/logger"
	"github.com/thushan/ladder/pkg/eventbus"
)

// Dispatcher is the single entry point for submitting requests to a chain.
// The walk itself is synchronous and has no retries; afterwards the outcome
// is reported to whichever sinks were configured. Any of recorder, stats
// and events may be nil.
type Dispatcher struct {
	recorder ports.ServiceRecorder
	stats    ports.StatsCollector
	events   *eventbus.EventBus[domain.DispatchEvent]
	logger   logger.StyledLogger
}

func NewDispatcher(
	recorder ports.ServiceRecorder,
	stats ports.StatsCollector,
	events *eventbus.EventBus[domain.DispatchEvent],
	logger logger.StyledLogger,
) *Dispatcher {
	return &Dispatcher{
		recorder: recorder,
		stats:    stats,
		events:   events,
		logger:   logger,
	}
}

// Dispatch submits req to chain. A nil or empty chain exhausts immediately.
// Exhaustion is a normal outcome, not an error.
func (d *Dispatcher) Dispatch(ctx context.Context, chain *Chain, req domain.Request) domain.Outcome {
	start := time.Now()
	outcome := chain.Handle(ctx, req)
	latency := time.Since(start)

	d.report(ctx, outcome, latency)

	return outcome
}

func (d *Dispatcher) report(ctx context.Context, outcome domain.Outcome, latency time.Duration) {
	if d.logger != nil {
		if outcome.IsHandled() {
			d.logger.InfoOutcome("Request serviced by", outcome, "latency", latency)
		} else {
			d.logger.WarnExhausted("No handler accepted request", outcome.Request,
				"hops", outcome.Hops)
		}
	}

	if d.recorder != nil {
		if err := d.recorder.Record(ctx, outcome.Record); err != nil && d.logger != nil {
			d.logger.Warn("Failed to record dispatch, continuing",
				"request_id", outcome.Request.ID(),
				"error", err)
		}
	}

	if d.stats != nil {
		d.stats.RecordDispatch(outcome, latency)
	}

	if d.events != nil {
		d.events.Publish(domain.NewDispatchEvent(outcome, latency))
	}
}
