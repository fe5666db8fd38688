package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/thushan/ladder/internal/core/domain"
)

// outcomeView is the --json shape of a dispatch outcome.
type outcomeView struct {
	RequestID   string             `json:"request_id"`
	Outcome     domain.OutcomeKind `json:"outcome"`
	HandledBy   string             `json:"handled_by,omitempty"`
	Description string             `json:"description"`
	Message     string             `json:"message"`
	Severity    domain.Severity    `json:"severity"`
	Hops        int                `json:"hops"`
}

func newOutcomeView(outcome domain.Outcome) outcomeView {
	return outcomeView{
		RequestID:   outcome.Request.ID(),
		Outcome:     outcome.Kind,
		HandledBy:   outcome.HandledBy,
		Severity:    outcome.Request.Severity(),
		Description: outcome.Request.Description(),
		Message:     outcome.Record.Message,
		Hops:        outcome.Hops,
	}
}

func writeOutcome(w io.Writer, outcome domain.Outcome, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(newOutcomeView(outcome))
	}
	_, err := fmt.Fprintln(w, formatOutcome(outcome))
	return err
}

func formatOutcome(outcome domain.Outcome) string {
	if outcome.IsHandled() {
		return fmt.Sprintf("handled by %s after %s: %s",
			outcome.HandledBy, plural(outcome.Hops, "hop"), outcome.Record.Message)
	}
	return fmt.Sprintf("exhausted after %s: %s", plural(outcome.Hops, "hop"), outcome.Record.Message)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
