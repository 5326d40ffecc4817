package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mcp-fence/mcp-fence/pkg/policy"
)

var effectDescriptions = map[policy.Effect]string{
	policy.EffectFS:   "Filesystem reads and writes",
	policy.EffectIO:   "Generic input/output such as logging",
	policy.EffectNet:  "Network access",
	policy.EffectProc: "Process spawning",
	policy.EffectTime: "Clock access",
	policy.EffectRand: "Randomness",
	policy.EffectPure: "Explicitly side-effect free",
}

func policyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect firewall policies",
	}
	cmd.AddCommand(policyShowCommand())
	cmd.AddCommand(policyVocabularyCommand())
	return cmd
}

type policySummary struct {
	Server           string                     `json:"server" yaml:"server"`
	Command          string                     `json:"command" yaml:"command"`
	Args             []string                   `json:"args,omitempty" yaml:"args,omitempty"`
	Allow            []policy.Effect            `json:"allow,omitempty" yaml:"allow,omitempty"`
	Deny             []policy.Effect            `json:"deny,omitempty" yaml:"deny,omitempty"`
	ToolOverrides    map[string][]policy.Effect `json:"tool_overrides,omitempty" yaml:"tool_overrides,omitempty"`
	EffectiveAllowed []policy.Effect            `json:"effective_allowed" yaml:"effective_allowed"`
}

func policyShowCommand() *cobra.Command {
	flags := &policyFlags{}
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a server's policy and its effective allowed effects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pol, err := flags.load()
			if err != nil {
				return err
			}

			summary := policySummary{
				Server:           pol.Name,
				Command:          pol.Command,
				Args:             pol.Args,
				Allow:            pol.Allow.Sorted(),
				Deny:             pol.Deny.Sorted(),
				ToolOverrides:    pol.ToolOverrides,
				EffectiveAllowed: policy.EffectiveAllowed(pol).Sorted(),
			}

			out := cmd.OutOrStdout()
			if outputFormat(format) != formatHuman {
				return render(out, outputFormat(format), summary)
			}

			fmt.Fprintf(out, "Server:  %s\n", summary.Server)
			fmt.Fprintf(out, "Command: %s %s\n", summary.Command, strings.Join(summary.Args, " "))
			fmt.Fprintf(out, "Allow:   %s\n", color.GreenString(joinOrAll(summary.Allow, "(all)")))
			fmt.Fprintf(out, "Deny:    %s\n", color.RedString(joinOrAll(summary.Deny, "(none)")))
			if len(summary.ToolOverrides) > 0 {
				fmt.Fprintln(out, "Tool overrides:")
				for _, name := range sortedKeys(summary.ToolOverrides) {
					fmt.Fprintf(out, "  %s: %s\n", name, joinEffects(summary.ToolOverrides[name]))
				}
			}
			fmt.Fprintf(out, "Effective allowed effects: %s\n", joinEffects(summary.EffectiveAllowed))
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&format, "format", string(formatHuman), "Output format (human|json|yaml)")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("server")

	return cmd
}

func policyVocabularyCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "vocabulary",
		Aliases: []string{"vocab"},
		Short:   "List the valid effect labels",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, e := range policy.AllEffects() {
				fmt.Fprintf(out, "%-6s %s\n", e, effectDescriptions[e])
			}
			return nil
		},
	}
}

func joinEffects(effects []policy.Effect) string {
	names := make([]string, len(effects))
	for i, e := range effects {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}

func joinOrAll(effects []policy.Effect, empty string) string {
	if len(effects) == 0 {
		return empty
	}
	return joinEffects(effects)
}
