package domain

import "time"

type OutcomeKind string

const (
	OutcomeHandled   OutcomeKind = "handled"
	OutcomeExhausted OutcomeKind = "exhausted"
)

// Outcome is the terminal result of walking a chain with one request.
// Hops counts the handlers that evaluated the request, so an empty chain
// exhausts with zero hops.
type Outcome struct {
	Request   Request
	Kind      OutcomeKind
	HandledBy string
	Record    ServiceRecord
	Hops      int
}

func Handled(by string, req Request, hops int, record ServiceRecord) Outcome {
	return Outcome{
		Kind:      OutcomeHandled,
		HandledBy: by,
		Request:   req,
		Hops:      hops,
		Record:    record,
	}
}

func Exhausted(req Request, hops int) Outcome {
	return Outcome{
		Kind:    OutcomeExhausted,
		Request: req,
		Hops:    hops,
		Record:  NewExhaustedRecord(req),
	}
}

func (o Outcome) IsHandled() bool {
	return o.Kind == OutcomeHandled
}

func (o Outcome) IsExhausted() bool {
	return o.Kind == OutcomeExhausted
}

// DispatchEvent is published once per dispatch for anyone watching the bus.
type DispatchEvent struct {
	Timestamp time.Time
	Outcome   Outcome
	Latency   time.Duration
}

func NewDispatchEvent(outcome Outcome, latency time.Duration) DispatchEvent {
	return DispatchEvent{
		Outcome:   outcome,
		Latency:   latency,
		Timestamp: time.Now(),
	}
}
