package util

import (
	"time"
)

// ParseTime accepts RFC3339 timestamps, a bare date (2006-01-02) or a
// duration which is taken as "that long ago". Returns nil when nothing fits.
func ParseTime(value string, now time.Time) *time.Time {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return &t
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, time.UTC); err == nil {
		return &t
	}
	if d, err := time.ParseDuration(value); err == nil && d >= 0 {
		t := now.Add(-d)
		return &t
	}
	return nil
}
