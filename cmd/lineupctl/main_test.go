package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "lineup.yaml")
	body := strings.Join([]string{
		"database:",
		"  type: sqlite",
		"  database_path: " + filepath.Join(dir, "lineup.db"),
		"security:",
		"  jwt_secret: cli-test-secret-cli-test-secret",
		"logging:",
		"  level: error",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTokenIssue(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := runCLI(t, "--config", cfg, "token", "issue", "--subject", "alice", "--role", "admin")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "."), 3)

	_, err = runCLI(t, "--config", cfg, "token", "issue")
	require.Error(t, err)

	_, err = runCLI(t, "--config", cfg, "token", "issue", "--subject", "bob", "--role", "pirate")
	require.Error(t, err)
}

func TestAssetsListEmpty(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := runCLI(t, "--config", cfg, "--json", "assets", "list")
	require.NoError(t, err)

	var assets []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &assets))
	assert.Empty(t, assets)

	out, err = runCLI(t, "--config", cfg, "rails")
	require.NoError(t, err)
	assert.Contains(t, out, "No results")
}

func TestClipsGenerateUnknownAsset(t *testing.T) {
	cfg := writeTestConfig(t)

	_, err := runCLI(t, "--config", cfg, "clips", "generate", "missing")
	require.Error(t, err)
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"ID", "Count"}, [][]string{{"a", "1"}, {"b"}}, []columnAlignment{alignLeft, alignRight})
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Count")
	assert.Contains(t, out, "a")
	assert.Empty(t, renderTable(nil, nil, nil))
}
