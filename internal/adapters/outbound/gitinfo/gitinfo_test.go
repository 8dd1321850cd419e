package gitinfo_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codejanitor/janitor/internal/adapters/outbound/gitinfo"
)

func TestRepository_IsGitRepo(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")
	sub := filepath.Join(dir, "pkg", "sub")
	require.NoError(t, os.MkdirAll(sub, 0755))

	gi := gitinfo.New()
	assert.True(t, gi.IsGitRepo(dir))
	assert.True(t, gi.IsGitRepo(sub), "subdirectories resolve to the enclosing repo")
	assert.False(t, gi.IsGitRepo(t.TempDir()))
}

func TestRepository_CommitHash(t *testing.T) {
	dir := committedRepo(t)

	gi := gitinfo.New()
	hash, err := gi.CommitHash(dir)
	require.NoError(t, err)
	assert.Len(t, hash, 40, "should be a full SHA-1 hash")
}

func TestRepository_CommitHash_NotGitRepo(t *testing.T) {
	gi := gitinfo.New()
	_, err := gi.CommitHash(t.TempDir())
	assert.Error(t, err)
}

func TestRepository_Modified(t *testing.T) {
	dir := committedRepo(t)
	gi := gitinfo.New()

	modified, err := gi.Modified(dir)
	require.NoError(t, err)
	assert.False(t, modified)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.py"), []byte("x = 2\n"), 0644))
	modified, err = gi.Modified(dir)
	require.NoError(t, err)
	assert.True(t, modified)
}

func committedRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.py"), []byte("x = 1\n"), 0644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "init")
	return dir
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, string(out))
}
