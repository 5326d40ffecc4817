package relay

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcp-fence/mcp-fence/pkg/log"
	"github.com/mcp-fence/mcp-fence/pkg/policy"
	"github.com/mcp-fence/mcp-fence/pkg/retry"
)

const (
	connectAttempts = 3
	connectDelay    = 200 * time.Millisecond
)

// ConnectBackend launches the policy's backend command as a child process
// and initializes an MCP session over its stdio pipes. The returned session
// owns the process: closing the session releases the process and its pipes.
func ConnectBackend(ctx context.Context, pol *policy.ServerPolicy) (*mcp.ClientSession, error) {
	log.Logf("- Connecting to backend: %s %s", pol.Command, strings.Join(pol.Args, " "))

	// A CommandTransport owns its exec.Cmd, so each attempt needs a fresh one.
	var session *mcp.ClientSession
	err := retry.Do(ctx, connectAttempts, connectDelay, func() error {
		cmd := exec.CommandContext(ctx, pol.Command, pol.Args...)
		cmd.Env = append(os.Environ(), envOverrides(pol.Env)...)
		// The backend's stderr is passed through; stdout carries the protocol.
		cmd.Stderr = os.Stderr

		var err error
		session, err = connectSession(ctx, &mcp.CommandTransport{Command: cmd})
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Log("- Backend initialized")
	return session, nil
}

// connectSession initializes an MCP client session over the given transport.
func connectSession(ctx context.Context, transport mcp.Transport) (*mcp.ClientSession, error) {
	client := mcp.NewClient(&mcp.Implementation{
		Name:    "mcp-fence",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing backend session: %w", err)
	}

	return session, nil
}

func envOverrides(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}

	overrides := make([]string, 0, len(env))
	for name, value := range env {
		overrides = append(overrides, name+"="+value)
	}
	sort.Strings(overrides)
	return overrides
}
