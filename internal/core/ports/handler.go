package ports

import (
	"context"

	"github.com/thushan/ladder/internal/core/domain"
)

// Handler is one tier of an escalation chain. CanHandle must be free of side
// effects; Serve is only called after CanHandle has accepted the request.
type Handler interface {
	Name() string
	CanHandle(req domain.Request) bool
	Serve(ctx context.Context, req domain.Request) domain.ServiceRecord
}

// Describer is implemented by handlers that can explain what they accept,
// used when listing a chain.
type Describer interface {
	Describe() string
}
