package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codejanitor/janitor/internal/domain"
)

type scriptedProvider struct {
	response string
}

func (p scriptedProvider) Name() string { return "scripted" }
func (p scriptedProvider) Complete(context.Context, string, domain.CompletionOptions) (string, error) {
	return p.response, nil
}
func (p scriptedProvider) Health(context.Context) error { return nil }

const testConfig = "linter:\n  enabled: false\nanalyzer:\n  complexity_checks: false\n  security_checks: true\nai:\n  retry_delay: 0\n"

func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files["janitor.yaml"] = testConfig
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func call(args map[string]any) mcplib.CallToolRequest {
	var req mcplib.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestCheckTool(t *testing.T) {
	dir := newProject(t, map[string]string{"app.py": "x = input()\nprint(eval(x))\n"})
	h := &handlers{opts: Options{ProjectPath: dir}}

	res, err := h.check(context.Background(), call(map[string]any{"path": "app.py"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &result))
	assert.True(t, result.HasIssues)
	assert.NotEmpty(t, result.ByCategory[domain.CategorySecurity])
}

func TestCheckTool_MissingPath(t *testing.T) {
	h := &handlers{opts: Options{ProjectPath: t.TempDir()}}

	res, err := h.check(context.Background(), call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestCleanTool_DryRunLeavesFileUntouched(t *testing.T) {
	original := "x = input()\nprint(eval(x))\n"
	dir := newProject(t, map[string]string{"app.py": original})
	h := &handlers{opts: Options{
		ProjectPath: dir,
		Provider:    scriptedProvider{response: "```python\nx = input()\nprint(int(x))\n```"},
	}}

	res, err := h.clean(context.Background(), call(map[string]any{"path": "app.py", "dry_run": true}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))

	var reports []domain.CleanReport
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, domain.CleanStateDryRun, reports[0].State)
	assert.Contains(t, reports[0].Diff, "+print(int(x))")

	data, err := os.ReadFile(filepath.Join(dir, "app.py"))
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestSnapshotsTool(t *testing.T) {
	dir := newProject(t, map[string]string{"app.py": "x = 1\nprint(x)\n"})
	h := &handlers{opts: Options{ProjectPath: dir}}

	res, err := h.snapshots(context.Background(), call(map[string]any{"action": "list"}))
	require.NoError(t, err)
	assert.Equal(t, "[]", text(t, res))

	res, err = h.snapshots(context.Background(), call(map[string]any{"action": "rollback", "target": "app.py"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "no snapshot")

	res, err = h.snapshots(context.Background(), call(map[string]any{"action": "rollback"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = h.snapshots(context.Background(), call(map[string]any{"action": "cleanup"}))
	require.NoError(t, err)
	assert.Equal(t, "Removed 0 snapshot(s)", text(t, res))

	res, err = h.snapshots(context.Background(), call(map[string]any{"action": "shred"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestConfigResource(t *testing.T) {
	dir := newProject(t, map[string]string{})
	h := &handlers{opts: Options{ProjectPath: dir}}

	contents, err := h.configResource(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	tc, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok)
	assert.Contains(t, tc.Text, `"max_nesting_depth": 4`)
	assert.NotContains(t, tc.Text, "api_key")
}
