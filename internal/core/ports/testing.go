package ports

import (
	"context"
	"sync"
	"time"

	"github.com/thushan/ladder/internal/core/domain"
)

// MockStatsCollector is a just-enough StatsCollector for tests that only
// care about counts.
type MockStatsCollector struct {
	handlers map[string]int64
	stats    DispatchStats
	mu       sync.Mutex
}

func NewMockStatsCollector() *MockStatsCollector {
	return &MockStatsCollector{
		handlers: make(map[string]int64),
	}
}

func (m *MockStatsCollector) RecordDispatch(outcome domain.Outcome, latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.TotalDispatches++
	m.stats.TotalHops += int64(outcome.Hops)
	if outcome.IsHandled() {
		m.stats.Handled++
		m.handlers[outcome.HandledBy]++
	} else {
		m.stats.Exhausted++
	}
}

func (m *MockStatsCollector) GetDispatchStats() DispatchStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func (m *MockStatsCollector) GetHandlerStats() map[string]HandlerStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]HandlerStats, len(m.handlers))
	for name, count := range m.handlers {
		out[name] = HandlerStats{Name: name, Handled: count}
	}
	return out
}

// MockRecorder keeps every record in memory and can be told to fail.
type MockRecorder struct {
	Err     error
	records []domain.ServiceRecord
	mu      sync.Mutex
}

func (m *MockRecorder) Record(ctx context.Context, record domain.ServiceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.records = append(m.records, record)
	return nil
}

func (m *MockRecorder) Records() []domain.ServiceRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ServiceRecord, len(m.records))
	copy(out, m.records)
	return out
}
