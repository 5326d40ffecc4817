package relay

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcp-fence/mcp-fence/pkg/gate"
	"github.com/mcp-fence/mcp-fence/pkg/log"
)

// middleware routes caller operations to the backend session. Tool listing
// and invocation go through the tool gate; resource and prompt operations
// are forwarded verbatim. Everything else (initialize, pings, notifications)
// falls through to the server's own handling.
func (r *Relay) middleware() mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			switch method {
			case "tools/list":
				return r.listTools(ctx)
			case "tools/call":
				return r.callTool(ctx, req.(*mcp.CallToolRequest))
			case "resources/list":
				return r.backend.ListResources(ctx, req.(*mcp.ListResourcesRequest).Params)
			case "resources/templates/list":
				return r.backend.ListResourceTemplates(ctx, req.(*mcp.ListResourceTemplatesRequest).Params)
			case "resources/read":
				log.Debugf("forwarding resource read (not filtered)")
				return r.backend.ReadResource(ctx, req.(*mcp.ReadResourceRequest).Params)
			case "prompts/list":
				return r.backend.ListPrompts(ctx, req.(*mcp.ListPromptsRequest).Params)
			case "prompts/get":
				log.Debugf("forwarding prompt get (not filtered)")
				return r.backend.GetPrompt(ctx, req.(*mcp.GetPromptRequest).Params)
			default:
				return next(ctx, method, req)
			}
		}
	}
}

// listTools fetches a fresh catalog from the backend, filters it by policy
// and replaces the allowed-name cache with the result. Each listing fully
// replaces the cache, it never merges.
func (r *Relay) listTools(ctx context.Context) (*mcp.ListToolsResult, error) {
	res, err := r.backend.ListTools(ctx, nil)
	if err != nil {
		return nil, err
	}

	filtered, names := gate.BuildAllowedTools(res.Tools, r.pol, r.classifier)
	r.replaceAllowedNames(names)

	log.Debugf("listing %d of %d backend tools", len(filtered), len(res.Tools))
	return &mcp.ListToolsResult{Tools: filtered}, nil
}

// callTool checks the requested name against the allowed-name cache and
// either forwards the call or fails it in place. A blocked call never
// reaches the backend.
func (r *Relay) callTool(ctx context.Context, req *mcp.CallToolRequest) (mcp.Result, error) {
	allowed, err := r.ensureAllowedNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing backend tools: %w", err)
	}

	name := req.Params.Name
	if !gate.IsAllowed(name, allowed) {
		log.Logf("Warning: blocked tool call: %s", name)
		return nil, fmt.Errorf("tool %q is blocked by firewall policy", name)
	}

	// Arguments are forwarded as raw JSON and intentionally not unmarshaled:
	// the relay does not own the tool schema and must not coerce inputs.
	params := &mcp.CallToolParams{
		Meta: req.Params.Meta,
		Name: name,
	}
	if len(req.Params.Arguments) > 0 {
		params.Arguments = req.Params.Arguments
	}

	log.Debugf("forwarding tool call: %s", name)
	return r.backend.CallTool(ctx, params)
}

// ensureAllowedNames performs one lazy catalog listing when a call arrives
// before any listing has populated the cache.
func (r *Relay) ensureAllowedNames(ctx context.Context) (map[string]bool, error) {
	if names := r.snapshotAllowedNames(); len(names) > 0 {
		return names, nil
	}
	if _, err := r.listTools(ctx); err != nil {
		return nil, err
	}
	return r.snapshotAllowedNames(), nil
}
