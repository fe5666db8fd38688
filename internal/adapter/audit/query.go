package audit

import (
	"bufio"
	"encoding/json"
	"io"
	"time"

	"github.com/tidwall/gjson"

	"github.com/thushan/ladder/internal/core/domain"
	"github.com/thushan/ladder/internal/util/pattern"
)

const maxLineSize = 64 * 1024

// Query filters journal entries. Zero values match everything; Handler
// accepts a leading or trailing * wildcard.
type Query struct {
	Since    *time.Time
	Handler  string
	Outcome  domain.OutcomeKind
	Severity domain.Severity
	Limit    int
}

// Matches checks a raw journal line without decoding the whole record.
func (q Query) Matches(line []byte) bool {
	if !gjson.ValidBytes(line) {
		return false
	}

	fields := gjson.GetManyBytes(line, "handler", "outcome", "severity", "ts")

	if q.Handler != "" && !pattern.MatchesGlob(fields[0].String(), q.Handler) {
		return false
	}
	if q.Outcome != "" && domain.OutcomeKind(fields[1].String()) != q.Outcome {
		return false
	}
	if q.Severity != 0 && domain.Severity(fields[2].Int()) != q.Severity {
		return false
	}
	if q.Since != nil {
		ts, err := time.Parse(time.RFC3339Nano, fields[3].String())
		if err != nil || ts.Before(*q.Since) {
			return false
		}
	}
	return true
}

// Scan reads JSONL from r and decodes the lines q matches. Blank and
// malformed lines are skipped.
func Scan(r io.Reader, q Query) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	var entries []Entry
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !q.Matches(line) {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)

		if q.Limit > 0 && len(entries) >= q.Limit {
			break
		}
	}
	return entries, scanner.Err()
}
