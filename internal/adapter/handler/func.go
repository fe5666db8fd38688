package handler

import (
	"context"

	"github.com/thushan/ladder/internal/core/domain"
)

// FuncHandler adapts plain functions into a handler. A nil serve func falls
// back to the standard service record.
type FuncHandler struct {
	accept func(domain.Request) bool
	serve  func(context.Context, domain.Request) domain.ServiceRecord
	name   string
}

func NewFuncHandler(name string, accept func(domain.Request) bool, serve func(context.Context, domain.Request) domain.ServiceRecord) *FuncHandler {
	return &FuncHandler{
		name:   name,
		accept: accept,
		serve:  serve,
	}
}

func (h *FuncHandler) Name() string {
	return h.name
}

func (h *FuncHandler) CanHandle(req domain.Request) bool {
	return h.accept != nil && h.accept(req)
}

func (h *FuncHandler) Serve(ctx context.Context, req domain.Request) domain.ServiceRecord {
	if h.serve == nil {
		return domain.NewServiceRecord(h.name, req)
	}
	return h.serve(ctx, req)
}
