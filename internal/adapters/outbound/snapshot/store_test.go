package snapshot_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codejanitor/janitor/internal/adapters/outbound/snapshot"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestStore_CreateAndRollback(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "app.py")
	original := "def main():\n    return 1\n\x00\xff trailing bytes\n"
	writeFile(t, target, original)

	s := snapshot.New(filepath.Join(dir, ".janitor_backups"), 5, nil)

	snap, ok := s.Create(target)
	require.True(t, ok)
	assert.Equal(t, "app.py", snap.OriginalName)
	assert.Equal(t, target, snap.OriginalPath)
	assert.FileExists(t, snap.SnapshotPath+".meta.json")

	writeFile(t, target, "broken(\n")
	require.True(t, s.Rollback(target))

	assert.Equal(t, original, readFile(t, target))
}

func TestStore_RollbackWithoutSnapshot(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "app.py")
	writeFile(t, target, "x = 1\n")

	s := snapshot.New(filepath.Join(dir, "backups"), 5, nil)

	assert.False(t, s.Rollback(target))
	_, ok := s.Latest(target)
	assert.False(t, ok)
}

func TestStore_CreateMissingTarget(t *testing.T) {
	dir := t.TempDir()
	s := snapshot.New(filepath.Join(dir, "backups"), 5, nil)

	snap, ok := s.Create(filepath.Join(dir, "missing.py"))
	assert.False(t, ok)
	assert.Nil(t, snap)
}

func TestStore_RetainsNewest(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "app.py")
	s := snapshot.New(filepath.Join(dir, "backups"), 3, nil)

	for i := 1; i <= 7; i++ {
		writeFile(t, target, fmt.Sprintf("version = %d\n", i))
		_, ok := s.Create(target)
		require.True(t, ok)
	}

	snaps := s.List(target)
	require.Len(t, snaps, 3)
	for i, snap := range snaps {
		content := readFile(t, filepath.Join(snap.SnapshotPath, "app.py"))
		assert.Equal(t, fmt.Sprintf("version = %d\n", 7-i), content)
	}

	require.True(t, s.Rollback(target))
	assert.Equal(t, "version = 7\n", readFile(t, target))
}

func TestStore_ListFiltersByTarget(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.py")
	b := filepath.Join(dir, "a.py_old.py")
	writeFile(t, a, "a = 1\n")
	writeFile(t, b, "b = 1\n")

	s := snapshot.New(filepath.Join(dir, "backups"), 5, nil)
	_, ok := s.Create(a)
	require.True(t, ok)
	_, ok = s.Create(b)
	require.True(t, ok)
	_, ok = s.Create(a)
	require.True(t, ok)

	assert.Len(t, s.List(a), 2)
	assert.Len(t, s.List(b), 1)
	all := s.List("")
	require.Len(t, all, 3)
	assert.False(t, all[0].CreatedAt.Before(all[1].CreatedAt))
	assert.False(t, all[1].CreatedAt.Before(all[2].CreatedAt))
}

func TestStore_DirectoryTarget(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "project")
	writeFile(t, filepath.Join(project, "main.py"), "print('hi')\n")
	writeFile(t, filepath.Join(project, "pkg", "util.py"), "X = 1\n")

	s := snapshot.New(filepath.Join(project, ".janitor_backups"), 5, nil)
	_, ok := s.Create(project)
	require.True(t, ok)

	writeFile(t, filepath.Join(project, "pkg", "util.py"), "X = 2\n")
	writeFile(t, filepath.Join(project, "new.py"), "added\n")

	require.True(t, s.Rollback(project))
	assert.Equal(t, "X = 1\n", readFile(t, filepath.Join(project, "pkg", "util.py")))
	assert.NoFileExists(t, filepath.Join(project, "new.py"))
	assert.Equal(t, "print('hi')\n", readFile(t, filepath.Join(project, "main.py")))
}

func TestStore_Cleanup(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "app.py")
	writeFile(t, target, "x = 1\n")

	s := snapshot.New(filepath.Join(dir, "backups"), 5, nil)
	for i := 0; i < 3; i++ {
		_, ok := s.Create(target)
		require.True(t, ok)
	}

	assert.Equal(t, 3, s.Cleanup())
	assert.Empty(t, s.List(""))
	assert.Equal(t, 0, s.Cleanup())
}

func TestStore_RetentionSpansTargets(t *testing.T) {
	dir := t.TempDir()
	s := snapshot.New(filepath.Join(dir, "backups"), 2, nil)

	var last string
	for _, name := range []string{"a.py", "b.py", "c.py"} {
		target := filepath.Join(dir, name)
		writeFile(t, target, name+"\n")
		for i := 0; i < 3; i++ {
			_, ok := s.Create(target)
			require.True(t, ok)
		}
		last = target
	}

	all := s.List("")
	require.Len(t, all, 2)
	for _, snap := range all {
		assert.Equal(t, last, snap.OriginalPath)
	}
	assert.Empty(t, s.List(filepath.Join(dir, "a.py")))
}

func TestStore_RestoreSpecificSnapshot(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "app.py")
	s := snapshot.New(filepath.Join(dir, "backups"), 5, nil)

	writeFile(t, target, "first = 1\n")
	first, ok := s.Create(target)
	require.True(t, ok)
	writeFile(t, target, "second = 2\n")
	_, ok = s.Create(target)
	require.True(t, ok)
	writeFile(t, target, "third = 3\n")

	require.True(t, s.Restore(*first))
	assert.Equal(t, "first = 1\n", readFile(t, target))
}
