package audit

import (
	"context"
	"sync"
	"time"

	"github.com/thushan/ladder/internal/core/domain"
	"github.com/thushan/ladder/internal/core/ports"
)

// MemoryJournal keeps entries in memory, for embedding and tests.
type MemoryJournal struct {
	entries []Entry
	mu      sync.RWMutex
}

var _ ports.ServiceRecorder = (*MemoryJournal)(nil)

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

func (m *MemoryJournal) Record(ctx context.Context, record domain.ServiceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, NewEntry(record, time.Now()))
	return nil
}

func (m *MemoryJournal) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *MemoryJournal) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
