package handler

import (
	"context"

	"github.com/thushan/ladder/internal/core/domain"
)

// RangeHandler services any severity inside an inclusive window, for chains
// that escalate by threshold rather than exact tier.
type RangeHandler struct {
	name   string
	label  string
	window domain.SeverityRange
}

func NewRangeHandler(name, label string, window domain.SeverityRange) *RangeHandler {
	return &RangeHandler{
		name:   name,
		label:  label,
		window: window,
	}
}

func (h *RangeHandler) Name() string {
	return h.name
}

func (h *RangeHandler) CanHandle(req domain.Request) bool {
	return h.window.Contains(req.Severity())
}

func (h *RangeHandler) Serve(ctx context.Context, req domain.Request) domain.ServiceRecord {
	return domain.NewServiceRecord(h.name, req)
}

func (h *RangeHandler) Describe() string {
	return withLabel(h.label, "severity "+h.window.String())
}
