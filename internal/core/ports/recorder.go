package ports

import (
	"context"

	"github.com/thushan/ladder/internal/core/domain"
)

// ServiceRecorder receives the audit record of every dispatch. Implementations
// must be safe for concurrent use as dispatches may run in parallel.
type ServiceRecorder interface {
	Record(ctx context.Context, record domain.ServiceRecord) error
}
