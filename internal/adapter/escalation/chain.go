package escalation

import (
	"context"

	"github.com/thushan/ladder/internal/core/domain"
	"github.com/thushan/ladder/internal/core/ports"
	"github.com/thushan/ladder/internal/logger"
)

// link wraps a handler with its successor. Links are created by the Builder
// and never modified afterwards, which is what makes a Chain safe to share
// between goroutines.
type link struct {
	handler ports.Handler
	next    *link
}

// Chain is an immutable, acyclic sequence of handlers. The zero value and a
// nil *Chain are both valid empty chains.
type Chain struct {
	logger logger.StyledLogger
	head   *link
	names  []string
}

// Handle walks the chain from the head. The first handler whose CanHandle
// accepts the request serves it; when none do the outcome is Exhausted.
func (c *Chain) Handle(ctx context.Context, req domain.Request) domain.Outcome {
	if c == nil || c.head == nil {
		return domain.Exhausted(req, 0)
	}
	return c.handle(ctx, c.head, req, 0)
}

func (c *Chain) handle(ctx context.Context, l *link, req domain.Request, hops int) domain.Outcome {
	hops++

	if l.handler.CanHandle(req) {
		record := l.handler.Serve(ctx, req)
		return domain.Handled(l.handler.Name(), req, hops, record)
	}

	if l.next == nil {
		return domain.Exhausted(req, hops)
	}

	if c.logger != nil {
		c.logger.Trace(ctx, "Handler declined request, escalating",
			"handler", l.handler.Name(),
			"next", l.next.handler.Name(),
			"request_id", req.ID(),
			"severity", int(req.Severity()))
	}

	return c.handle(ctx, l.next, req, hops)
}

func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// Names lists handler names from head to tail.
func (c *Chain) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Handlers returns the handlers in dispatch order.
func (c *Chain) Handlers() []ports.Handler {
	if c == nil {
		return nil
	}
	handlers := make([]ports.Handler, 0, len(c.names))
	for l := c.head; l != nil; l = l.next {
		handlers = append(handlers, l.handler)
	}
	return handlers
}
