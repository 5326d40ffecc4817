// Package commands builds the mcp-fence command tree.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/mcp-fence/mcp-fence/cmd/mcp-fence/version"
)

// Root returns the root command.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp-fence",
		Short: "Policy-enforcing MCP firewall proxy",
		Long: `mcp-fence relays a single MCP backend over stdio, filtering its tool
catalog and blocking tool calls according to a declarative effect policy.`,
		SilenceUsage: true,
		Version:      version.Version,
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddCommand(runCommand())
	cmd.AddCommand(policyCommand())
	cmd.AddCommand(toolsCommand())

	return cmd
}
