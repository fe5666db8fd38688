package audit

import (
	"time"

	"github.com/thushan/ladder/internal/core/domain"
)

const (
	DefaultFileName = "ladder.jsonl"
	dateLayout      = "2006-01-02"
)

// Entry is one line of the journal: the service record plus when it was
// written.
type Entry struct {
	Timestamp string `json:"ts"`
	domain.ServiceRecord
}

func NewEntry(record domain.ServiceRecord, at time.Time) Entry {
	return Entry{
		Timestamp:     at.UTC().Format(time.RFC3339Nano),
		ServiceRecord: record,
	}
}

// Time parses the entry timestamp, zero when it is malformed.
func (e Entry) Time() time.Time {
	t, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
