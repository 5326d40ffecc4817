package commands

import (
	"github.com/spf13/pflag"

	"github.com/mcp-fence/mcp-fence/pkg/log"
	"github.com/mcp-fence/mcp-fence/pkg/policy"
)

// policyFlags are the flags shared by every command that loads a policy.
type policyFlags struct {
	config  string
	server  string
	verbose bool
}

func (f *policyFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.config, "config", "", "Path to the policy YAML file")
	flags.StringVar(&f.server, "server", "", "Server entry in the policy file to activate")
	flags.BoolVar(&f.verbose, "verbose", false, "Enable debug logging")
}

func (f *policyFlags) load() (*policy.ServerPolicy, error) {
	log.SetDebug(f.verbose)
	return policy.Load(f.config, f.server)
}
