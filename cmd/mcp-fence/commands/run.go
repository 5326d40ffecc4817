package commands

import (
	"github.com/spf13/cobra"

	"github.com/mcp-fence/mcp-fence/pkg/relay"
)

func runCommand() *cobra.Command {
	flags := &policyFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the firewall relay for a server entry",
		Example: `  mcp-fence run --config policy.yaml --server filesystem`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// A policy load failure exits non-zero before any session is
			// established.
			pol, err := flags.load()
			if err != nil {
				return err
			}

			return relay.New(pol).Run(cmd.Context())
		},
	}

	flags.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("server")

	return cmd
}
