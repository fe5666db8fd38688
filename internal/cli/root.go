package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/thushan/ladder/internal/util"
	"github.com/thushan/ladder/internal/version"
)

// ExitCodeExhausted is returned when --fail-on-exhausted is set and no
// handler accepted the request.
const ExitCodeExhausted = 3

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Err  error
	Code int
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

type globalOptions struct {
	configFile string
	logLevel   string
	quiet      bool
}

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   version.Name,
		Short: "ladder - " + version.Description,
		Long: `ladder passes support requests along an ordered chain of handlers until
one of them accepts it. The chain is read from config.yaml (chain.handlers).

Examples:
  ladder dispatch --severity 2 --description "VPN keeps dropping"
  ladder dispatch -s 9 -d "Datacenter on fire" --fail-on-exhausted
  echo "1 Password reset" | ladder run
  ladder chain
  ladder audit --handler "level*" --since 24h`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !util.ShouldUseColors() {
				pterm.DisableStyling()
			}
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "",
		"Path to config file (default: ./config.yaml, ./config/config.yaml or $LADDER_CONFIG_FILE)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"Override logging.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false,
		"Only log errors")

	rootCmd.AddCommand(newDispatchCommand(opts))
	rootCmd.AddCommand(newRunCommand(opts))
	rootCmd.AddCommand(newChainCommand(opts))
	rootCmd.AddCommand(newAuditCommand(opts))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the root command and returns the process exit code.
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintln(stderr, exitErr.Err)
		}
		return exitErr.Code
	}

	fmt.Fprintln(stderr, "Error:", err)
	return 1
}

// Main is what cmd wiring calls.
func Main() {
	os.Exit(Execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
