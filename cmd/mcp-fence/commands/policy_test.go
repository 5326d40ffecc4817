package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcp-fence/mcp-fence/pkg/policy"
)

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPolicyShow_JSON(t *testing.T) {
	path := writePolicyFile(t, `
servers:
  filesystem:
    command: npx
    args: ["server-filesystem", "/tmp"]
    allow: [FS, IO]
    deny: [IO]
`)

	var out bytes.Buffer
	cmd := Root()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"policy", "show", "--config", path, "--server", "filesystem", "--format", "json"})

	require.NoError(t, cmd.Execute())

	var summary policySummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, "filesystem", summary.Server)
	assert.Equal(t, "npx", summary.Command)
	assert.Equal(t, []policy.Effect{policy.EffectFS}, summary.EffectiveAllowed)
}

func TestPolicyShow_LoadFailureExitsWithError(t *testing.T) {
	path := writePolicyFile(t, `
servers:
  filesystem:
    command: npx
    allow: [BOGUS]
`)

	var out bytes.Buffer
	cmd := Root()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"policy", "show", "--config", path, "--server", "filesystem"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "servers.filesystem.allow")
	assert.Contains(t, err.Error(), "BOGUS")
}

func TestPolicyVocabulary(t *testing.T) {
	var out bytes.Buffer
	cmd := Root()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"policy", "vocabulary"})

	require.NoError(t, cmd.Execute())

	for _, label := range []string{"FS", "IO", "NET", "PROC", "TIME", "RAND", "PURE"} {
		assert.Contains(t, out.String(), label)
	}
}
