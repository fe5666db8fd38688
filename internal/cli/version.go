package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/thushan/ladder/internal/version"
)

func newVersionCommand() *cobra.Command {
	var asJSON, extended bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(version.Get())
			}
			version.PrintVersionInfo(cmd.OutOrStdout(), extended)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version information as JSON")
	cmd.Flags().BoolVarP(&extended, "extended", "e", false, "Include build details")
	return cmd
}
