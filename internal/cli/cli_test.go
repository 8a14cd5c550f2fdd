package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
	return dir
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "forgebee dev")
	assert.Contains(t, out, "commit:")
}

func TestConfigInit(t *testing.T) {
	dir := chdirTemp(t)

	out, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	data, err := os.ReadFile(filepath.Join(dir, ".forgebee", "config.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "ForgeBee Configuration")
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	chdirTemp(t)

	_, err := execute(t, "config", "init")
	require.NoError(t, err)

	_, err = execute(t, "config", "init")
	assert.ErrorContains(t, err, "already exists")
}

func TestConfigShow_RedactsAPIKey(t *testing.T) {
	chdirTemp(t)
	t.Setenv("FORGEBEE_PROVIDER__API_KEY", "sk-secret")

	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "api_key: (set, redacted)")
	assert.NotContains(t, out, "sk-secret")
}

func TestConfigPath(t *testing.T) {
	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(".forgebee", "config.yml"))
}

func TestGenerate_RequiresRequirement(t *testing.T) {
	_, err := execute(t, "generate")
	assert.Error(t, err)
}

func TestWatch_RejectsMissingDirectory(t *testing.T) {
	_, err := execute(t, "watch", filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
