package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/thushan/ladder/internal/adapter/audit"
	"github.com/thushan/ladder/internal/core/domain"
	"github.com/thushan/ladder/internal/logger"
	"github.com/thushan/ladder/internal/util"
)

type auditOptions struct {
	dir      string
	handler  string
	outcome  string
	since    string
	severity int
	limit    int
	asJSON   bool
}

func newAuditCommand(global *globalOptions) *cobra.Command {
	opts := &auditOptions{}

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Search the service record journal",
		Long: `Read the JSONL audit journal written when audit.enabled is true.
--since accepts an RFC3339 timestamp, a date (2006-01-02) or a duration
such as 24h meaning that long ago.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}

			dir := opts.dir
			if dir == "" {
				dir = cfg.Audit.Dir
			}

			q, err := opts.query(time.Now())
			if err != nil {
				return err
			}

			_, styledLogger, cleanup, err := logger.NewWithTheme(&logger.Config{
				Output: cmd.ErrOrStderr(),
				Level:  cfg.Logging.Level,
				Theme:  cfg.Logging.Theme,
			})
			if err != nil {
				return fmt.Errorf("failed to initialise logger: %w", err)
			}
			defer cleanup()

			entries, err := audit.NewJournal(dir, styledLogger).Query(q)
			if err != nil {
				return err
			}
			return writeEntries(cmd, entries, opts.asJSON)
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", "", "Journal directory (default: audit.dir)")
	cmd.Flags().StringVar(&opts.handler, "handler", "", "Handler name, * wildcard allowed at either end")
	cmd.Flags().StringVar(&opts.outcome, "outcome", "", "handled or exhausted")
	cmd.Flags().StringVar(&opts.since, "since", "", "Only entries at or after this time")
	cmd.Flags().IntVar(&opts.severity, "severity", 0, "Only this severity")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Stop after this many entries")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print matching entries as JSON lines")

	return cmd
}

func (o *auditOptions) query(now time.Time) (audit.Query, error) {
	q := audit.Query{
		Handler: o.handler,
		Limit:   o.limit,
	}

	switch domain.OutcomeKind(o.outcome) {
	case "":
	case domain.OutcomeHandled, domain.OutcomeExhausted:
		q.Outcome = domain.OutcomeKind(o.outcome)
	default:
		return q, fmt.Errorf("--outcome must be %q or %q", domain.OutcomeHandled, domain.OutcomeExhausted)
	}

	if o.severity != 0 {
		if !domain.Severity(o.severity).Valid() {
			return q, fmt.Errorf("--severity must be between %d and %d", domain.MinSeverity, domain.MaxSeverity)
		}
		q.Severity = domain.Severity(o.severity)
	}

	if o.since != "" {
		q.Since = util.ParseTime(o.since, now)
		if q.Since == nil {
			return q, errors.New("--since must be an RFC3339 time, a date or a duration")
		}
	}

	return q, nil
}

func writeEntries(cmd *cobra.Command, entries []audit.Entry, asJSON bool) error {
	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		for _, e := range entries {
			if err := enc.Encode(e); err != nil {
				return err
			}
		}
		return nil
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "no matching audit entries")
		return err
	}

	data := pterm.TableData{{"Time", "Severity", "Outcome", "Handler", "Message"}}
	for _, e := range entries {
		handler := e.Handler
		if handler == "" {
			handler = "-"
		}
		data = append(data, []string{
			e.Timestamp,
			strconv.Itoa(int(e.Severity)),
			string(e.Outcome),
			handler,
			e.Message,
		})
	}
	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, rendered)
	return err
}
