package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/thushan/ladder/internal/core/domain"
	"github.com/thushan/ladder/pkg/eventbus"
	"github.com/thushan/ladder/pkg/format"
)

const followTimeFormat = "15:04:05.000"

// followEvents prints every dispatch event published on bus to w until the
// returned stop func is called. stop drains whatever is still buffered and
// is safe to call more than once.
func followEvents(ctx context.Context, bus *eventbus.EventBus[domain.DispatchEvent], w io.Writer) (stop func()) {
	events, unsubscribe := bus.Subscribe(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for ev := range events {
			fmt.Fprintln(w, formatEvent(ev))
		}
	}()

	return func() {
		unsubscribe()
		<-done
	}
}

func formatEvent(ev domain.DispatchEvent) string {
	outcome := ev.Outcome
	by := outcome.HandledBy
	if !outcome.IsHandled() {
		by = "-"
	}
	return fmt.Sprintf("[%s] %-9s %-12s severity=%d hops=%d latency=%s id=%s",
		ev.Timestamp.Format(followTimeFormat),
		outcome.Kind,
		by,
		outcome.Request.Severity(),
		outcome.Hops,
		format.Latency(ev.Latency),
		outcome.Request.ID())
}
