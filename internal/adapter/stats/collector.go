package stats

/*
	Dispatch Stats Collector
	Every dispatch reports here once its outcome is known. Totals live in
	plain atomics, per handler counters in an xsync map keyed by handler
	name so concurrent dispatches through the same chain never contend on
	a single lock.

	Handlers are only tracked once they have serviced something; a chain
	is small and fixed so there is nothing to expire.
*/

import (
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/thushan/ladder/internal/core/domain"
	"github.com/thushan/ladder/internal/core/ports"
	"github.com/thushan/ladder/internal/logger"
)

type Collector struct {
	logger   logger.StyledLogger
	handlers *xsync.Map[string, *handlerData]

	totalDispatches atomic.Int64
	handled         atomic.Int64
	exhausted       atomic.Int64
	totalHops       atomic.Int64
	totalLatency    atomic.Int64
	maxLatency      atomic.Int64
}

type handlerData struct {
	name          string
	handled       *xsync.Counter
	lastHandledAt atomic.Int64
}

var _ ports.StatsCollector = (*Collector)(nil)

func NewCollector(logger logger.StyledLogger) *Collector {
	return &Collector{
		logger:   logger,
		handlers: xsync.NewMap[string, *handlerData](),
	}
}

func (c *Collector) RecordDispatch(outcome domain.Outcome, latency time.Duration) {
	c.totalDispatches.Add(1)
	c.totalHops.Add(int64(outcome.Hops))
	c.totalLatency.Add(int64(latency))
	c.updateMaxLatency(int64(latency))

	if !outcome.IsHandled() {
		c.exhausted.Add(1)
		return
	}

	c.handled.Add(1)

	data, loaded := c.handlers.LoadOrCompute(outcome.HandledBy, func() (*handlerData, bool) {
		return &handlerData{name: outcome.HandledBy, handled: xsync.NewCounter()}, false
	})
	if !loaded && c.logger != nil {
		c.logger.Debug("Tracking new handler", "handler", outcome.HandledBy)
	}
	data.handled.Inc()
	data.lastHandledAt.Store(time.Now().UnixNano())
}

func (c *Collector) updateMaxLatency(latency int64) {
	for {
		current := c.maxLatency.Load()
		if latency <= current || c.maxLatency.CompareAndSwap(current, latency) {
			return
		}
	}
}

func (c *Collector) GetDispatchStats() ports.DispatchStats {
	total := c.totalDispatches.Load()

	var avg time.Duration
	if total > 0 {
		avg = time.Duration(c.totalLatency.Load() / total)
	}

	return ports.DispatchStats{
		TotalDispatches: total,
		Handled:         c.handled.Load(),
		Exhausted:       c.exhausted.Load(),
		TotalHops:       c.totalHops.Load(),
		AverageLatency:  avg,
		MaxLatency:      time.Duration(c.maxLatency.Load()),
	}
}

func (c *Collector) GetHandlerStats() map[string]ports.HandlerStats {
	stats := make(map[string]ports.HandlerStats, c.handlers.Size())

	c.handlers.Range(func(name string, data *handlerData) bool {
		var last time.Time
		if ns := data.lastHandledAt.Load(); ns > 0 {
			last = time.Unix(0, ns)
		}
		stats[name] = ports.HandlerStats{
			Name:          data.name,
			Handled:       data.handled.Value(),
			LastHandledAt: last,
		}
		return true
	})

	return stats
}
