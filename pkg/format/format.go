package format

import (
	"fmt"
	"strconv"
	"time"
)

const (
	zeroPercent = "0%"
	zeroLatency = "0ms"
	never       = "never"
)

// Duration formats duration in a readable way
func Duration(d time.Duration) string {
	if d < time.Second {
		return d.String()
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// Ratio is part over total as a percentage string, 0% for an empty total.
func Ratio(part, total int64) string {
	if total <= 0 {
		return zeroPercent
	}
	return Percentage(float64(part) * 100 / float64(total))
}

func Percentage(value float64) string {
	if value == 0 {
		return zeroPercent
	}
	if value == 100.0 {
		return "100%"
	}
	return fmt.Sprintf("%.1f%%", value)
}

// Latency renders sub-millisecond latencies in microseconds since a
// dispatch through an in-process chain rarely reaches a millisecond.
func Latency(d time.Duration) string {
	if d <= 0 {
		return zeroLatency
	}
	if d < time.Millisecond {
		return strconv.FormatInt(d.Microseconds(), 10) + "µs"
	}
	if d >= time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
}

// Hops formats an average hop count
func Hops(total, dispatches int64) string {
	if dispatches <= 0 {
		return "0"
	}
	return strconv.FormatFloat(float64(total)/float64(dispatches), 'f', 2, 64)
}

func TimeAgo(t time.Time, now time.Time) string {
	if t.IsZero() {
		return never
	}
	return TimeDuration(now.Sub(t)) + " ago"
}

func TimeDuration(d time.Duration) string {
	if d < time.Minute {
		return strconv.Itoa(int(d.Seconds())) + "s"
	}
	if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%.0fh", d.Hours())
	}
	return fmt.Sprintf("%.0fd", d.Hours()/24)
}
