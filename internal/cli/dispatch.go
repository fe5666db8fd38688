package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thushan/ladder/internal/core/domain"
)

type dispatchOptions struct {
	description     string
	severity        int
	asJSON          bool
	failOnExhausted bool
}

func newDispatchCommand(global *globalOptions) *cobra.Command {
	opts := &dispatchOptions{}

	cmd := &cobra.Command{
		Use:   "dispatch [description...]",
		Short: "Dispatch one request through the chain",
		Long: `Submit a single request to the configured chain and print the outcome.
The description can be given with --description or as trailing arguments.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			description := opts.description
			if description == "" {
				description = strings.Join(args, " ")
			}
			if description == "" {
				return errors.New("a description is required (--description or trailing arguments)")
			}

			req, err := domain.NewRequest(opts.severity, description)
			if err != nil {
				return err
			}

			rt, err := global.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			outcome := rt.app.Dispatch(cmd.Context(), req)
			if err := writeOutcome(cmd.OutOrStdout(), outcome, opts.asJSON); err != nil {
				return err
			}

			if outcome.IsExhausted() && opts.failOnExhausted {
				return &ExitError{Code: ExitCodeExhausted}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.severity, "severity", "s", 0, "Request severity (1-10)")
	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "Request description")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the outcome as JSON")
	cmd.Flags().BoolVar(&opts.failOnExhausted, "fail-on-exhausted", false,
		"Exit with code 3 when no handler accepts the request")
	_ = cmd.MarkFlagRequired("severity")

	return cmd
}
