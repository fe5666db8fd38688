package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Severity is the urgency tier of a request. Lower numbers are more urgent
// and are expected to be serviced closer to the front line.
type Severity int

const (
	MinSeverity Severity = 1
	MaxSeverity Severity = 10

	MaxDescriptionLength = 1024
)

// Valid reports whether s lies within MinSeverity..MaxSeverity.
func (s Severity) Valid() bool {
	return s >= MinSeverity && s <= MaxSeverity
}

// Request is a unit of work submitted to an escalation chain. Fields are
// unexported so a request can't change while it is being dispatched.
type Request struct {
	createdAt   time.Time
	id          string
	description string
	severity    Severity
}

// NewRequest validates severity and description and stamps the request with
// a fresh ID.
func NewRequest(severity int, description string) (Request, error) {
	sev := Severity(severity)
	if !sev.Valid() {
		return Request{}, NewRequestValidationError("severity", severity,
			"must be between "+MinSeverity.String()+" and "+MaxSeverity.String())
	}

	desc := strings.TrimSpace(description)
	if desc == "" {
		return Request{}, NewRequestValidationError("description", description, "must not be blank")
	}
	if len(desc) > MaxDescriptionLength {
		return Request{}, NewRequestValidationError("description", len(desc), "exceeds maximum length")
	}

	return Request{
		id:          uuid.NewString(),
		severity:    sev,
		description: desc,
		createdAt:   time.Now().UTC(),
	}, nil
}

// MustRequest is NewRequest for fixtures and examples where the input is
// known to be valid.
func MustRequest(severity int, description string) Request {
	req, err := NewRequest(severity, description)
	if err != nil {
		panic(err)
	}
	return req
}

func (r Request) ID() string           { return r.id }
func (r Request) Severity() Severity   { return r.severity }
func (r Request) Description() string  { return r.description }
func (r Request) CreatedAt() time.Time { return r.createdAt }

// IsZero reports whether r was never constructed through NewRequest.
func (r Request) IsZero() bool {
	return r.id == ""
}
