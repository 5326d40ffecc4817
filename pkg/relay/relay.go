// Package relay bridges two MCP sessions: it serves a caller over one
// transport while acting as a client to a single backend server, filtering
// the tool catalog and gating tool calls by effect policy. All other
// operations pass through verbatim.
package relay

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcp-fence/mcp-fence/pkg/effects"
	"github.com/mcp-fence/mcp-fence/pkg/log"
	"github.com/mcp-fence/mcp-fence/pkg/policy"
)

// State is the relay lifecycle state.
type State string

const (
	StateDisconnected      State = "disconnected"
	StateConnectingBackend State = "connecting-backend"
	StateBackendReady      State = "backend-ready"
	StateServing           State = "serving"
	StateClosed            State = "closed"
)

// Relay owns exactly one caller-facing session and one backend session.
type Relay struct {
	pol        *policy.ServerPolicy
	classifier effects.Classifier
	id         string

	// backendTransport overrides the default child-process transport. Used
	// by tests and embedders.
	backendTransport mcp.Transport

	backend *mcp.ClientSession

	// allowedNames is the set of tool names permitted as of the last catalog
	// listing. Written only by the listing path, which replaces the whole
	// map; readers take a snapshot under the lock. Authoritative only as of
	// its last refresh: a call racing a refresh may be judged under the
	// previous catalog.
	mu           sync.RWMutex
	allowedNames map[string]bool
	state        State
}

// Option configures a Relay.
type Option func(*Relay)

// WithClassifier replaces the default keyword classifier.
func WithClassifier(classifier effects.Classifier) Option {
	return func(r *Relay) {
		r.classifier = classifier
	}
}

// WithBackendTransport connects the backend session over the given transport
// instead of launching the policy's command as a child process.
func WithBackendTransport(transport mcp.Transport) Option {
	return func(r *Relay) {
		r.backendTransport = transport
	}
}

// New creates a relay for the given policy.
func New(pol *policy.ServerPolicy, opts ...Option) *Relay {
	r := &Relay{
		pol:        pol,
		classifier: effects.NewKeyword(),
		id:         uuid.NewString(),
		state:      StateDisconnected,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current lifecycle state.
func (r *Relay) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Relay) setState(state State) {
	r.mu.Lock()
	r.state = state
	r.mu.Unlock()
}

// Run connects to the backend and serves the caller on stdio until either
// side's transport ends.
func (r *Relay) Run(ctx context.Context) error {
	return r.RunWithTransport(ctx, &mcp.StdioTransport{})
}

// RunWithTransport runs the relay with a custom caller-facing transport.
// Useful for tests and for connecting to the relay programmatically.
func (r *Relay) RunWithTransport(ctx context.Context, transport mcp.Transport) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.setState(StateConnectingBackend)
	var backend *mcp.ClientSession
	var err error
	if r.backendTransport != nil {
		backend, err = connectSession(ctx, r.backendTransport)
	} else {
		backend, err = ConnectBackend(ctx, r.pol)
	}
	if err != nil {
		r.setState(StateClosed)
		return fmt.Errorf("connecting to backend %q: %w", r.pol.Name, err)
	}
	r.backend = backend
	r.setState(StateBackendReady)

	// Both sessions are torn down together on every exit path.
	defer r.setState(StateClosed)
	defer backend.Close()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "mcp-fence",
		Version: "1.0.0",
	}, &mcp.ServerOptions{
		HasTools:     true,
		HasPrompts:   true,
		HasResources: true,
		InitializedHandler: func(_ context.Context, req *mcp.InitializedRequest) {
			clientInfo := req.Session.InitializeParams().ClientInfo
			log.Logf("- Client initialized: %s@%s", clientInfo.Name, clientInfo.Version)
		},
	})
	server.AddReceivingMiddleware(r.middleware())

	// When the backend transport ends, tear down the caller side too.
	go func() {
		_ = backend.Wait()
		cancel()
	}()

	r.setState(StateServing)
	log.Logf("- Relay %s serving %q", r.id, r.pol.Name)

	if err := server.Run(ctx, transport); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// snapshotAllowedNames returns the current allowed-name set. The listing
// path never mutates a published map, so the snapshot is safe to read
// without the lock.
func (r *Relay) snapshotAllowedNames() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.allowedNames
}

func (r *Relay) replaceAllowedNames(names map[string]bool) {
	r.mu.Lock()
	r.allowedNames = names
	r.mu.Unlock()
}
