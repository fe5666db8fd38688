package escalation

import (
	"strconv"
	"strings"

	"github.com/thushan/ladder/internal/adapter/handler"
	"github.com/thushan/ladder/internal/core/domain"
	"github.com/thushan/ladder/internal/core/ports"
	"github.com/thushan/ladder/internal/logger"
)

type Builder struct {
	factory *handler.Factory
	logger  logger.StyledLogger
}

func NewBuilder(factory *handler.Factory, logger logger.StyledLogger) *Builder {
	if factory == nil {
		factory = handler.NewFactory()
	}
	return &Builder{
		factory: factory,
		logger:  logger,
	}
}

// Build links handlers[i] to handlers[i+1] and returns the frozen chain.
// Nothing is returned on error, so a half-linked chain can never reach a
// dispatcher. Every call creates fresh links, which lets the same handler
// take part in several chains without their linkage interfering.
func (b *Builder) Build(handlers ...ports.Handler) (*Chain, error) {
	if err := validate(handlers); err != nil {
		return nil, err
	}

	names := make([]string, len(handlers))
	var head *link
	for i := len(handlers) - 1; i >= 0; i-- {
		head = &link{handler: handlers[i], next: head}
		names[i] = handlers[i].Name()
	}

	if b.logger != nil {
		b.logger.InfoWithCount("Built escalation chain", len(names), "handlers", names)
	}

	return &Chain{
		head:   head,
		names:  names,
		logger: b.logger,
	}, nil
}

// BuildFromDescriptors creates the handlers through the factory, then builds.
func (b *Builder) BuildFromDescriptors(descs []domain.HandlerDescriptor) (*Chain, error) {
	handlers, err := b.factory.CreateAll(descs)
	if err != nil {
		return nil, err
	}
	return b.Build(handlers...)
}

func validate(handlers []ports.Handler) error {
	seen := make(map[string]int, len(handlers))
	for i, h := range handlers {
		if h == nil {
			return domain.NewConfigurationError(i, "", "nil handler", domain.ErrNilHandler)
		}

		name := h.Name()
		if strings.TrimSpace(name) == "" {
			return domain.NewConfigurationError(i, "", "handler name is blank", domain.ErrUnnamedHandler)
		}

		if first, dup := seen[name]; dup {
			return domain.NewConfigurationError(i, name,
				"already linked at position "+strconv.Itoa(first), domain.ErrDuplicateHandler)
		}
		seen[name] = i
	}
	return nil
}
