package handler

import (
	"context"
	"slices"
	"strings"

	"github.com/thushan/ladder/internal/core/domain"
)

// TierHandler services requests whose severity exactly matches one of its
// tiers. This is the classic "level N support" handler.
type TierHandler struct {
	name       string
	label      string
	severities []domain.Severity
}

func NewTierHandler(name, label string, severities ...domain.Severity) *TierHandler {
	sevs := slices.Clone(severities)
	slices.Sort(sevs)
	return &TierHandler{
		name:       name,
		label:      label,
		severities: slices.Compact(sevs),
	}
}

func (h *TierHandler) Name() string {
	return h.name
}

func (h *TierHandler) CanHandle(req domain.Request) bool {
	_, found := slices.BinarySearch(h.severities, req.Severity())
	return found
}

func (h *TierHandler) Serve(ctx context.Context, req domain.Request) domain.ServiceRecord {
	return domain.NewServiceRecord(h.name, req)
}

func (h *TierHandler) Describe() string {
	parts := make([]string, len(h.severities))
	for i, s := range h.severities {
		parts[i] = s.String()
	}
	return withLabel(h.label, "severity "+strings.Join(parts, ", "))
}

func withLabel(label, accepts string) string {
	if label == "" {
		return accepts
	}
	return label + " (" + accepts + ")"
}
