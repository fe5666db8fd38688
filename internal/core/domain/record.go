package domain

import "fmt"

// ServiceRecord is the human readable audit line for a dispatch. It carries
// no timestamp so identical dispatches produce identical records; sinks stamp
// the time when they persist it.
type ServiceRecord struct {
	RequestID   string      `json:"request_id"`
	Handler     string      `json:"handler,omitempty"`
	Outcome     OutcomeKind `json:"outcome"`
	Description string      `json:"description"`
	Message     string      `json:"message"`
	Severity    Severity    `json:"severity"`
}

func NewServiceRecord(handler string, req Request) ServiceRecord {
	return ServiceRecord{
		RequestID:   req.ID(),
		Handler:     handler,
		Outcome:     OutcomeHandled,
		Severity:    req.Severity(),
		Description: req.Description(),
		Message:     fmt.Sprintf("%s serviced request: %s", handler, req.Description()),
	}
}

func NewExhaustedRecord(req Request) ServiceRecord {
	return ServiceRecord{
		RequestID:   req.ID(),
		Outcome:     OutcomeExhausted,
		Severity:    req.Severity(),
		Description: req.Description(),
		Message:     fmt.Sprintf("no handler accepted severity %d request: %s", req.Severity(), req.Description()),
	}
}
