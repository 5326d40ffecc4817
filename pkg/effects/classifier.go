// Package effects assigns effect labels to MCP tool definitions.
package effects

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcp-fence/mcp-fence/pkg/policy"
)

// Classifier assigns an effect-label set to each tool in a catalog. An
// override entry replaces the inferred set for that tool name, it is never
// merged with it. The relay works with any conforming implementation.
type Classifier interface {
	Classify(tools []*mcp.Tool, overrides map[string][]policy.Effect) map[string][]policy.Effect
}

// Static is a fixed-answer classifier. Tools absent from the table get an
// empty effect set.
type Static struct {
	// Effects maps tool names to their assigned effects.
	Effects map[string][]policy.Effect
}

// Classify returns the configured effects, with overrides taking precedence.
func (s Static) Classify(tools []*mcp.Tool, overrides map[string][]policy.Effect) map[string][]policy.Effect {
	result := make(map[string][]policy.Effect, len(tools))
	for _, tool := range tools {
		if labels, ok := overrides[tool.Name]; ok {
			result[tool.Name] = labels
			continue
		}
		result[tool.Name] = s.Effects[tool.Name]
	}
	return result
}
