package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-crew/pkg/registry"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, reportsDir string) string {
	t.Helper()
	body := "logging:\n  level: error\n  format: json\n  output: stderr\n" +
		"pipeline:\n  error_policy: embed\n  reports_dir: " + reportsDir + "\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestKBCommand(t *testing.T) {
	out, err := execute(t, "kb", "swot", "analysis")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))
}

func TestKBCommand_NeedsQuery(t *testing.T) {
	_, err := execute(t, "kb")
	assert.Error(t, err)
}

func TestToolsCommand(t *testing.T) {
	out, err := execute(t, "tools")
	require.NoError(t, err)

	var reg registry.ToolRegistry
	require.NoError(t, json.Unmarshal([]byte(out), &reg))
	assert.Len(t, reg.Tools, 6)
	assert.Len(t, reg.Roles, 4)
	assert.Equal(t, "crew-target-research", reg.Activities[0].TaskType)
}

func TestToolsCommand_WriteAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry", "tools.json")

	out, err := execute(t, "tools", "--write", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Registry written to")

	out, err = execute(t, "tools", "--validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "6 tools, 8 activities OK")

	require.NoError(t, os.WriteFile(path, []byte(`{"version":""}`), 0o644))
	_, err = execute(t, "tools", "--validate", path)
	assert.Error(t, err)
}

func TestRunCommand(t *testing.T) {
	reportsDir := filepath.Join(t.TempDir(), "reports")
	cfgPath := writeConfig(t, reportsDir)

	out, err := execute(t, "run", "--config", cfgPath,
		"--target", "Acme Co", "--industry", "retail",
		"--decision-maker", "J. Doe", "--position", "CEO", "--milestone", "IPO",
		"--email", "not-an-address")
	require.NoError(t, err)
	assert.Contains(t, out, "Starting analysis for Acme Co (retail)")
	assert.Contains(t, out, "Report saved to")
	assert.Contains(t, out, `Skipping email: "not-an-address"`)

	entries, err := os.ReadDir(reportsDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "Acme_Co_"))

	content, err := os.ReadFile(filepath.Join(reportsDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Strategic Analysis Report: Acme Co")
	assert.Contains(t, string(content), "## Industry: retail")
}

func TestRunCommand_RequiredFlags(t *testing.T) {
	_, err := execute(t, "run", "--target", "Acme Co")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "industry")
}

func TestRunCommand_ReportWriteFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	cfgPath := writeConfig(t, blocker)

	out, err := execute(t, "run", "--config", cfgPath,
		"--target", "Acme Co", "--industry", "retail", "--email", "ceo@example.com")
	require.Error(t, err)
	assert.NotContains(t, out, "emailed")
}

func TestHistoryCommand_ArchiveDisabled(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir())

	_, err := execute(t, "history", "--config", cfgPath, "Acme Co")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archive.enabled")
}

func TestSearchCommand_IndexDisabled(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir())

	_, err := execute(t, "search", "--config", cfgPath, "retail")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index.enabled")
}
