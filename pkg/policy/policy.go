// Package policy parses per-server firewall policies.
//
// Policy file format:
//
//	servers:
//	  filesystem:
//	    command: npx
//	    args: ["@modelcontextprotocol/server-filesystem", "/tmp"]
//	    allow: [FS, IO]
//	    deny: [NET]
//	    tool_overrides:
//	      special_tool: [FS, NET]
package policy

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrServerNotFound is returned when the requested server has no entry in
// the policy file.
var ErrServerNotFound = errors.New("server not found in policy")

// ServerPolicy is the access policy for a single backend server. It is a
// point-in-time snapshot: once loaded it is never mutated or reloaded for
// the lifetime of the relay process.
type ServerPolicy struct {
	// Name is the server entry name in the policy file.
	Name string
	// Command launches the backend MCP server.
	Command string
	// Args are the backend launch arguments.
	Args []string
	// Env holds optional environment overrides for the backend process.
	Env map[string]string
	// Allow lists the permitted effects. Empty means all effects.
	Allow EffectSet
	// Deny lists the forbidden effects. Deny always wins over allow.
	Deny EffectSet
	// ToolOverrides replaces the inferred effects for the named tools.
	ToolOverrides map[string][]Effect
}

type policyFile struct {
	Servers map[string]serverEntry `yaml:"servers"`
}

type serverEntry struct {
	Command       string              `yaml:"command"`
	Args          []string            `yaml:"args"`
	Env           map[string]string   `yaml:"env"`
	Allow         []string            `yaml:"allow"`
	Deny          []string            `yaml:"deny"`
	ToolOverrides map[string][]string `yaml:"tool_overrides"`
}

// Load reads a policy file and returns the policy for the named server.
func Load(path string, serverName string) (*ServerPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy file: %w", err)
	}

	pol, err := Parse(data, serverName)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return pol, nil
}

// Parse parses policy YAML and returns the policy for the named server.
func Parse(data []byte, serverName string) (*ServerPolicy, error) {
	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("policy file must contain a YAML mapping: %w", err)
	}

	if file.Servers == nil {
		return nil, errors.New("policy file must contain a 'servers' mapping")
	}

	entry, ok := file.Servers[serverName]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrServerNotFound, serverName, strings.Join(serverNames(file.Servers), ", "))
	}

	if entry.Command == "" {
		return nil, fmt.Errorf("server %q is missing required 'command' field", serverName)
	}

	allow, err := parseEffects(entry.Allow, fmt.Sprintf("servers.%s.allow", serverName))
	if err != nil {
		return nil, err
	}
	deny, err := parseEffects(entry.Deny, fmt.Sprintf("servers.%s.deny", serverName))
	if err != nil {
		return nil, err
	}

	var overrides map[string][]Effect
	if len(entry.ToolOverrides) > 0 {
		overrides = make(map[string][]Effect, len(entry.ToolOverrides))
		for toolName, labels := range entry.ToolOverrides {
			set, err := parseEffects(labels, fmt.Sprintf("servers.%s.tool_overrides.%s", serverName, toolName))
			if err != nil {
				return nil, err
			}
			overrides[toolName] = set.Sorted()
		}
	}

	return &ServerPolicy{
		Name:          serverName,
		Command:       entry.Command,
		Args:          entry.Args,
		Env:           entry.Env,
		Allow:         allow,
		Deny:          deny,
		ToolOverrides: overrides,
	}, nil
}

// EffectiveAllowed computes the effects a policy actually permits: the allow
// set, or the full vocabulary when allow is empty, minus the deny set.
func EffectiveAllowed(pol *ServerPolicy) EffectSet {
	allowed := make(EffectSet, len(ValidEffects))
	if len(pol.Allow) == 0 {
		for e := range ValidEffects {
			allowed[e] = true
		}
	} else {
		for e := range pol.Allow {
			allowed[e] = true
		}
	}

	for e := range pol.Deny {
		delete(allowed, e)
	}

	return allowed
}

// parseEffects validates labels against the closed vocabulary. The error
// names the offending field and lists the valid labels.
func parseEffects(labels []string, fieldPath string) (EffectSet, error) {
	set := make(EffectSet, len(labels))
	var invalid []string
	for _, label := range labels {
		e := Effect(label)
		if !ValidEffects[e] {
			invalid = append(invalid, label)
			continue
		}
		set[e] = true
	}

	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, fmt.Errorf("invalid effect(s) in %s: %s (valid effects: %s)",
			fieldPath, strings.Join(invalid, ", "), joinEffects(AllEffects()))
	}

	return set, nil
}

func joinEffects(effects []Effect) string {
	names := make([]string, len(effects))
	for i, e := range effects {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}

func serverNames(servers map[string]serverEntry) []string {
	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
