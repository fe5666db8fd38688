package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thushan/ladder/internal/config"
	"github.com/thushan/ladder/internal/core/domain"
	"github.com/thushan/ladder/internal/core/ports"
)

type chainEntry struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Accepts  string `json:"accepts"`
	Position int    `json:"position"`
}

func newChainCommand(global *globalOptions) *cobra.Command {
	var asJSON, asYAML bool

	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Show the configured chain in dispatch order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := global.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			entries := describeChain(rt.cfg, rt.app.Chain().Handlers())
			out := cmd.OutOrStdout()

			switch {
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			case asYAML:
				return writeChainYAML(out, rt.cfg.Chain)
			}

			if len(entries) == 0 {
				_, err := fmt.Fprintln(out, "chain is empty, every request will be exhausted")
				return err
			}

			data := pterm.TableData{{"#", "Handler", "Kind", "Accepts"}}
			for _, e := range entries {
				data = append(data, []string{strconv.Itoa(e.Position), e.Name, e.Kind, e.Accepts})
			}
			rendered, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the chain as JSON")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the chain as a config.yaml snippet")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
	return cmd
}

// describeChain pairs the built handlers with the config entries they came
// from; both are in the same order.
func describeChain(cfg *config.Config, handlers []ports.Handler) []chainEntry {
	entries := make([]chainEntry, 0, len(handlers))
	for i, h := range handlers {
		kind := domain.HandlerKindTier
		if i < len(cfg.Chain.Handlers) && cfg.Chain.Handlers[i].Kind != "" {
			kind = cfg.Chain.Handlers[i].Kind
		}

		accepts := "-"
		if d, ok := h.(ports.Describer); ok {
			accepts = d.Describe()
		}

		entries = append(entries, chainEntry{
			Position: i + 1,
			Name:     h.Name(),
			Kind:     kind,
			Accepts:  accepts,
		})
	}
	return entries
}

// writeChainYAML emits the active chain in the shape config.yaml expects,
// handy for pinning the defaults into a file.
func writeChainYAML(w io.Writer, chain config.ChainConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]config.ChainConfig{"chain": chain}); err != nil {
		return fmt.Errorf("encode chain: %w", err)
	}
	return enc.Close()
}
