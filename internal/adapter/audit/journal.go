package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/thushan/ladder/internal/core/domain"
	"github.com/thushan/ladder/internal/core/ports"
	"github.com/thushan/ladder/internal/logger"
)

// Journal appends service records to {dir}/{date}/ladder.jsonl, one JSON
// object per line. The file is opened per write so rotation by date needs
// no bookkeeping.
type Journal struct {
	logger logger.StyledLogger
	now    func() time.Time
	dir    string
	mu     sync.Mutex
}

var _ ports.ServiceRecorder = (*Journal)(nil)

func NewJournal(dir string, log logger.StyledLogger) *Journal {
	return &Journal{
		dir:    dir,
		logger: log,
		now:    time.Now,
	}
}

func (j *Journal) Record(ctx context.Context, record domain.ServiceRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := j.now()
	entry := NewEntry(record, now)

	j.mu.Lock()
	defer j.mu.Unlock()

	dirPath := filepath.Join(j.dir, now.Format(dateLayout))
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		j.logger.Error("Failed to create audit directory", "path", dirPath, "error", err)
		return fmt.Errorf("create audit dir: %w", err)
	}

	filePath := filepath.Join(dirPath, DefaultFileName)
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		j.logger.Error("Failed to open audit journal", "path", filePath, "error", err)
		return fmt.Errorf("open audit journal: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(entry); err != nil {
		j.logger.Error("Failed to write audit entry", "error", err)
		return fmt.Errorf("write audit entry: %w", err)
	}

	j.logger.Debug("Recorded audit entry",
		"request_id", record.RequestID,
		"outcome", record.Outcome,
		"file", filePath)

	return nil
}

// Files lists every journal file under the directory, oldest date first.
func (j *Journal) Files() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(j.dir, "*", DefaultFileName))
	if err != nil {
		return nil, fmt.Errorf("list audit journals: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// Query scans every journal file and returns the entries matching q.
func (j *Journal) Query(q Query) ([]Entry, error) {
	files, err := j.Files()
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, path := range files {
		if q.Limit > 0 && len(entries) >= q.Limit {
			break
		}
		found, err := j.scanFile(path, q, q.Limit-len(entries))
		if err != nil {
			return nil, err
		}
		entries = append(entries, found...)
	}
	return entries, nil
}

func (j *Journal) scanFile(path string, q Query, remaining int) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audit journal %s: %w", path, err)
	}
	defer f.Close()

	sub := q
	if q.Limit > 0 {
		sub.Limit = remaining
	}
	entries, err := Scan(f, sub)
	if err != nil {
		return nil, fmt.Errorf("read audit journal %s: %w", path, err)
	}
	return entries, nil
}
