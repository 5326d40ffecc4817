// Package gate filters tool catalogs by effect policy and answers per-call
// allow checks.
package gate

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcp-fence/mcp-fence/pkg/effects"
	"github.com/mcp-fence/mcp-fence/pkg/log"
	"github.com/mcp-fence/mcp-fence/pkg/policy"
)

// BuildAllowedTools classifies every tool in the catalog and keeps only
// those whose entire effect set is permitted by the policy. Tools with an
// empty effect set are always kept. It returns the filtered catalog and the
// set of retained tool names.
//
// The result depends only on the inputs: identical catalogs and policies
// yield identical outputs on repeated calls.
func BuildAllowedTools(catalog []*mcp.Tool, pol *policy.ServerPolicy, classifier effects.Classifier) ([]*mcp.Tool, map[string]bool) {
	allowed := policy.EffectiveAllowed(pol)
	effectsByName := classifier.Classify(catalog, pol.ToolOverrides)

	filtered := make([]*mcp.Tool, 0, len(catalog))
	allowedNames := make(map[string]bool, len(catalog))

	for _, tool := range catalog {
		labels := effectsByName[tool.Name]
		log.Debugf("tool %q has effects %v", tool.Name, labels)

		if !allEffectsAllowed(labels, allowed) {
			continue
		}

		filtered = append(filtered, tool)
		allowedNames[tool.Name] = true
	}

	log.Debugf("filtered %d tools down to %d (allowed effects: %v)", len(catalog), len(filtered), allowed.Sorted())
	return filtered, allowedNames
}

// allEffectsAllowed reports whether every label is a member of the allowed
// set. A label outside the closed vocabulary is never a member of any
// allowed set, so a classifier defect excludes the tool rather than letting
// it through.
func allEffectsAllowed(labels []policy.Effect, allowed policy.EffectSet) bool {
	for _, label := range labels {
		if !allowed.Contains(label) {
			return false
		}
	}
	return true
}

// IsAllowed reports whether the named tool passed the last catalog filter.
func IsAllowed(name string, allowedNames map[string]bool) bool {
	return allowedNames[name]
}
