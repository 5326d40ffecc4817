package effects

import (
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcp-fence/mcp-fence/pkg/policy"
)

// keywordRules maps effect labels to keywords matched against a tool's name
// and description. A rule matches on substring, lowercased.
var keywordRules = map[policy.Effect][]string{
	policy.EffectFS:   {"file", "directory", "folder", "path", "disk", "read_", "write_", "mkdir", "delete"},
	policy.EffectNet:  {"http", "url", "fetch", "download", "upload", "web", "request", "network", "search", "api"},
	policy.EffectProc: {"exec", "spawn", "process", "shell", "command", "subprocess"},
	policy.EffectIO:   {"log", "print", "message", "notify", "stdout", "stderr"},
	policy.EffectTime: {"time", "clock", "date", "schedule", "sleep"},
	policy.EffectRand: {"random", "uuid", "shuffle", "sample"},
}

// Keyword infers effects from a tool's name and description by keyword
// matching. It is a deliberately simple heuristic: a tool with no matching
// keyword gets an empty effect set, which the gate always retains. Tools
// with overrides bypass inference entirely.
type Keyword struct{}

// NewKeyword returns the default keyword-based classifier.
func NewKeyword() Keyword {
	return Keyword{}
}

// Classify infers effects for each tool, honoring overrides.
func (Keyword) Classify(tools []*mcp.Tool, overrides map[string][]policy.Effect) map[string][]policy.Effect {
	result := make(map[string][]policy.Effect, len(tools))
	for _, tool := range tools {
		if labels, ok := overrides[tool.Name]; ok {
			result[tool.Name] = labels
			continue
		}
		result[tool.Name] = infer(tool)
	}
	return result
}

func infer(tool *mcp.Tool) []policy.Effect {
	haystack := strings.ToLower(tool.Name + " " + tool.Description)

	var labels []policy.Effect
	for effect, keywords := range keywordRules {
		for _, keyword := range keywords {
			if strings.Contains(haystack, keyword) {
				labels = append(labels, effect)
				break
			}
		}
	}

	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}
