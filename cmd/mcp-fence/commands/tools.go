package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mcp-fence/mcp-fence/pkg/effects"
	"github.com/mcp-fence/mcp-fence/pkg/gate"
	"github.com/mcp-fence/mcp-fence/pkg/policy"
	"github.com/mcp-fence/mcp-fence/pkg/relay"
)

func toolsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect backend tools",
	}
	cmd.AddCommand(toolsLsCommand())
	return cmd
}

type toolEntry struct {
	Name        string          `json:"name" yaml:"name"`
	Effects     []policy.Effect `json:"effects,omitempty" yaml:"effects,omitempty"`
	Allowed     bool            `json:"allowed" yaml:"allowed"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
}

func toolsLsCommand() *cobra.Command {
	flags := &policyFlags{}
	var format string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List the backend's tools with their effects and gate decision",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pol, err := flags.load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			session, err := relay.ConnectBackend(ctx, pol)
			if err != nil {
				return err
			}
			defer session.Close()

			res, err := session.ListTools(ctx, nil)
			if err != nil {
				return err
			}

			classifier := effects.NewKeyword()
			effectsByName := classifier.Classify(res.Tools, pol.ToolOverrides)
			_, allowedNames := gate.BuildAllowedTools(res.Tools, pol, classifier)

			entries := make([]toolEntry, 0, len(res.Tools))
			for _, tool := range res.Tools {
				entries = append(entries, toolEntry{
					Name:        tool.Name,
					Effects:     effectsByName[tool.Name],
					Allowed:     gate.IsAllowed(tool.Name, allowedNames),
					Description: firstLine(tool.Description),
				})
			}

			out := cmd.OutOrStdout()
			if outputFormat(format) != formatHuman {
				return render(out, outputFormat(format), entries)
			}

			fmt.Fprintf(out, "\nBackend tools for %q (%d total, %d allowed)\n\n", pol.Name, len(entries), len(allowedNames))
			fmt.Fprintf(out, "%-28s %-18s %-8s %s\n", "NAME", "EFFECTS", "POLICY", "DESCRIPTION")
			fmt.Fprintln(out, strings.Repeat("-", 90))
			for _, entry := range entries {
				decision := color.GreenString("allow")
				if !entry.Allowed {
					decision = color.RedString("block")
				}
				fmt.Fprintf(out, "%-28s %-18s %-8s %s\n", entry.Name, joinEffects(entry.Effects), decision, entry.Description)
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&format, "format", string(formatHuman), "Output format (human|json|yaml)")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("server")

	return cmd
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 60 {
		s = s[:57] + "..."
	}
	return s
}
