package ports

import (
	"time"

	"github.com/thushan/ladder/internal/core/domain"
)

type StatsCollector interface {
	RecordDispatch(outcome domain.Outcome, latency time.Duration)
	GetDispatchStats() DispatchStats
	GetHandlerStats() map[string]HandlerStats
}

type DispatchStats struct {
	TotalDispatches int64
	Handled         int64
	Exhausted       int64
	TotalHops       int64
	AverageLatency  time.Duration
	MaxLatency      time.Duration
}

type HandlerStats struct {
	Name          string
	Handled       int64
	LastHandledAt time.Time
}
