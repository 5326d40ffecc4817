package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/goccy/go-yaml"
)

type outputFormat string

const (
	formatHuman outputFormat = "human"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

// render writes v in the requested machine-readable format. The human
// format is handled by each command.
func render(out io.Writer, format outputFormat, v any) error {
	switch format {
	case formatJSON:
		buf, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(buf))
		return err
	case formatYAML:
		buf, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = out.Write(buf)
		return err
	default:
		return fmt.Errorf("unsupported format: %s (supported: human, json, yaml)", format)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
