package handler

import (
	"fmt"
	"slices"
	"sync"

	"github.com/thushan/ladder/internal/core/domain"
	"github.com/thushan/ladder/internal/core/ports"
)

const DefaultHandlerKind = domain.HandlerKindTier

type Creator func(desc domain.HandlerDescriptor) (ports.Handler, error)

// Factory turns descriptors into handlers. Custom kinds can be registered
// alongside the built-in tier and range kinds.
type Factory struct {
	creators map[string]Creator
	mu       sync.RWMutex
}

func NewFactory() *Factory {
	factory := &Factory{
		creators: make(map[string]Creator),
	}

	factory.Register(domain.HandlerKindTier, createTier)
	factory.Register(domain.HandlerKindRange, createRange)

	return factory
}

func (f *Factory) Register(kind string, creator Creator) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[kind] = creator
}

func (f *Factory) Create(desc domain.HandlerDescriptor) (ports.Handler, error) {
	kind := desc.Kind
	if kind == "" {
		kind = DefaultHandlerKind
	}

	f.mu.RLock()
	creator, exists := f.creators[kind]
	f.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownHandlerKind, kind)
	}

	return creator(desc)
}

// CreateAll preserves descriptor order; the first failure is reported as a
// ConfigurationError pointing at its position.
func (f *Factory) CreateAll(descs []domain.HandlerDescriptor) ([]ports.Handler, error) {
	handlers := make([]ports.Handler, 0, len(descs))
	for i, desc := range descs {
		h, err := f.Create(desc)
		if err != nil {
			return nil, domain.NewConfigurationError(i, desc.Name, "cannot create handler", err)
		}
		handlers = append(handlers, h)
	}
	return handlers, nil
}

func (f *Factory) AvailableKinds() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	kinds := make([]string, 0, len(f.creators))
	for kind := range f.creators {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}

func createTier(desc domain.HandlerDescriptor) (ports.Handler, error) {
	if len(desc.Severities) == 0 {
		return nil, fmt.Errorf("%w: tier handler needs at least one severity", domain.ErrInvalidHandlerSpec)
	}
	for _, s := range desc.Severities {
		if !s.Valid() {
			return nil, fmt.Errorf("%w: severity %d out of range %d-%d",
				domain.ErrInvalidHandlerSpec, s, domain.MinSeverity, domain.MaxSeverity)
		}
	}
	return NewTierHandler(desc.Name, desc.Label, desc.Severities...), nil
}

func createRange(desc domain.HandlerDescriptor) (ports.Handler, error) {
	if !desc.Range.Valid() {
		return nil, fmt.Errorf("%w: range %d-%d is not a valid severity window",
			domain.ErrInvalidHandlerSpec, desc.Range.Min, desc.Range.Max)
	}
	return NewRangeHandler(desc.Name, desc.Label, desc.Range), nil
}
