package cli_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codejanitor/janitor/internal/adapters/inbound/cli"
)

func TestVersionCommand(t *testing.T) {
	out, err := run(cli.NewRootCmdForTest(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "janitor dev")
}

func TestCheckCommand_IssuesExitNonZero(t *testing.T) {
	dir := newProject(t, map[string]string{"app.py": dirtySource})

	out, err := run(cli.NewRootCmdForTest(), "check", filepath.Join(dir, "app.py"))
	require.Error(t, err)
	assert.True(t, cli.IsFindings(err))
	assert.Contains(t, out, "Dangerous use of eval/exec detected")
}

func TestCheckCommand_CleanFile(t *testing.T) {
	dir := newProject(t, map[string]string{"ok.py": "def add(a, b):\n    return a + b\n\n\nprint(add(1, 2))\n"})

	out, err := run(cli.NewRootCmdForTest(), "check", filepath.Join(dir, "ok.py"))
	require.NoError(t, err)
	assert.Contains(t, out, "No issues found.")
}

func TestCheckCommand_JSON(t *testing.T) {
	dir := newProject(t, map[string]string{"app.py": dirtySource, "pkg/ok.py": "print(1)\n"})

	out, err := run(cli.NewRootCmdForTest(), "check", dir, "--format", "json")
	require.Error(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc), "output should be valid JSON")
	summary := doc["summary"].(map[string]interface{})
	assert.EqualValues(t, 2, summary["files"])
	assert.GreaterOrEqual(t, summary["security_issues"], float64(1))
}

func TestCheckCommand_HTMLToFile(t *testing.T) {
	dir := newProject(t, map[string]string{"app.py": dirtySource})
	out := filepath.Join(t.TempDir(), "report.html")

	stdout, err := run(cli.NewRootCmdForTest(), "check", dir, "-f", "html", "-o", out)
	require.Error(t, err)
	assert.Contains(t, stdout, "Report written to")
	assert.Contains(t, readFile(t, out), "<h1>janitor</h1>")
}

func TestCheckCommand_UnknownFormat(t *testing.T) {
	dir := newProject(t, nil)

	_, err := run(cli.NewRootCmdForTest(), "check", dir, "--format", "xml")
	require.Error(t, err)
	assert.False(t, cli.IsFindings(err))
	assert.Contains(t, err.Error(), "unknown format")
}

func TestCheckCommand_MissingTarget(t *testing.T) {
	_, err := run(cli.NewRootCmdForTest(), "check", filepath.Join(t.TempDir(), "missing.py"))
	assert.Error(t, err)
	assert.False(t, cli.IsFindings(err))
}

func TestHistoryCommand_AfterCheck(t *testing.T) {
	dir := newProject(t, map[string]string{"app.py": dirtySource})

	_, _ = run(cli.NewRootCmdForTest(), "check", dir)
	_, _ = run(cli.NewRootCmdForTest(), "check", dir, "--no-history")

	out, err := run(cli.NewRootCmdForTest(), "history", dir, "--json")
	require.NoError(t, err)

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.GreaterOrEqual(t, records[0]["security_issues"], float64(1))
}

func TestHistoryCommand_Empty(t *testing.T) {
	dir := newProject(t, nil)

	out, err := run(cli.NewRootCmdForTest(), "history", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No analysis history found.")
}
