package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/codejanitor/janitor/internal/domain"
)

const (
	timestampLayout = "20060102_150405"
	metaSuffix      = ".meta.json"
)

// namePattern splits a snapshot directory name into the original name, the
// timestamp and the optional same-second counter.
var namePattern = regexp.MustCompile(`^(.+)_(\d{8}_\d{6})(?:_(\d+))?$`)

// Store implements domain.SnapshotStore on the local filesystem. Each
// snapshot is a directory <name>_<timestamp> holding the copy under its
// original name, with metadata in a sibling <snapshot>.meta.json file.
type Store struct {
	dir    string
	max    int
	logger *slog.Logger
}

// New creates a store rooted at dir that keeps at most maxSnapshots in
// total, across every target.
func New(dir string, maxSnapshots int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return &Store{dir: dir, max: maxSnapshots, logger: logger}
}

// Dir returns the directory snapshots are written to.
func (s *Store) Dir() string { return s.dir }

func (s *Store) Create(target string) (*domain.Snapshot, bool) {
	target = absPath(target)
	info, err := os.Stat(target)
	if err != nil {
		s.logger.Warn("cannot snapshot missing target", "target", target, "error", err)
		return nil, false
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		s.logger.Warn("cannot create snapshot directory", "dir", s.dir, "error", err)
		return nil, false
	}

	now := time.Now()
	name := filepath.Base(target)
	snapDir, err := s.reserve(name, now)
	if err != nil {
		s.logger.Warn("cannot reserve snapshot", "target", target, "error", err)
		return nil, false
	}

	dst := filepath.Join(snapDir, name)
	if info.IsDir() {
		err = s.copyTree(target, dst)
	} else {
		err = copyFile(target, dst, info.Mode().Perm())
	}
	if err != nil {
		s.logger.Warn("snapshot copy failed", "target", target, "error", err)
		_ = os.RemoveAll(snapDir)
		return nil, false
	}

	snap := &domain.Snapshot{
		OriginalPath: target,
		SnapshotPath: snapDir,
		CreatedAt:    now,
		OriginalName: name,
	}
	if err := writeMeta(snap); err != nil {
		s.logger.Warn("cannot write snapshot metadata", "snapshot", snapDir, "error", err)
	}
	_ = os.Chtimes(snapDir, now, now)

	s.prune()
	s.logger.Debug("created snapshot", "target", target, "snapshot", snapDir)
	return snap, true
}

func (s *Store) Latest(target string) (*domain.Snapshot, bool) {
	snaps := s.List(target)
	if len(snaps) == 0 {
		return nil, false
	}
	return &snaps[0], true
}

func (s *Store) Rollback(target string) bool {
	snap, ok := s.Latest(target)
	if !ok {
		s.logger.Warn("no snapshot to restore", "target", target)
		return false
	}
	return s.restore(*snap, target)
}

// Restore copies snap back over its recorded original path.
func (s *Store) Restore(snap domain.Snapshot) bool {
	if snap.OriginalPath == "" {
		s.logger.Warn("snapshot has no original path", "snapshot", snap.SnapshotPath)
		return false
	}
	return s.restore(snap, snap.OriginalPath)
}

func (s *Store) restore(snap domain.Snapshot, target string) bool {
	src := filepath.Join(snap.SnapshotPath, snap.OriginalName)
	info, err := os.Stat(src)
	if err != nil {
		s.logger.Warn("snapshot content missing", "snapshot", snap.SnapshotPath, "error", err)
		return false
	}

	dst := absPath(target)
	if info.IsDir() {
		if err := s.clearDir(dst); err != nil {
			s.logger.Warn("cannot clear target for restore", "target", dst, "error", err)
			return false
		}
		err = s.copyTree(src, dst)
	} else {
		err = copyFile(src, dst, info.Mode().Perm())
	}
	if err != nil {
		s.logger.Warn("restore failed", "target", dst, "snapshot", snap.SnapshotPath, "error", err)
		return false
	}
	return true
}

// List returns snapshots newest first. A non-empty target narrows the list
// to snapshots of that path.
func (s *Store) List(target string) []domain.Snapshot {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("cannot list snapshots", "dir", s.dir, "error", err)
		}
		return nil
	}

	var want, prefix string
	if target != "" {
		want = absPath(target)
		prefix = filepath.Base(want) + "_"
	}

	var snaps []domain.Snapshot
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if prefix != "" && !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		snap, ok := s.load(e)
		if !ok {
			continue
		}
		if want != "" && snap.OriginalPath != want {
			if snap.OriginalPath != "" || snap.OriginalName != filepath.Base(want) {
				continue
			}
		}
		snaps = append(snaps, snap)
	}

	sort.SliceStable(snaps, func(i, j int) bool {
		if !snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
		}
		return sequence(snaps[i].SnapshotPath) > sequence(snaps[j].SnapshotPath)
	})
	return snaps
}

func (s *Store) Cleanup() int {
	removed := 0
	for _, snap := range s.List("") {
		if s.remove(snap) {
			removed++
		}
	}
	return removed
}

// prune enforces the retention limit over the whole store, oldest first.
func (s *Store) prune() {
	if s.max <= 0 {
		return
	}
	snaps := s.List("")
	for i := s.max; i < len(snaps); i++ {
		s.remove(snaps[i])
	}
}

func (s *Store) remove(snap domain.Snapshot) bool {
	if err := os.RemoveAll(snap.SnapshotPath); err != nil {
		s.logger.Warn("cannot remove snapshot", "snapshot", snap.SnapshotPath, "error", err)
		return false
	}
	_ = os.Remove(snap.SnapshotPath + metaSuffix)
	return true
}

// reserve creates a fresh snapshot directory, adding a counter when a
// snapshot of the same name was taken within the same second.
func (s *Store) reserve(name string, at time.Time) (string, error) {
	base := filepath.Join(s.dir, name+"_"+at.Format(timestampLayout))
	candidate := base
	for n := 1; ; n++ {
		err := os.Mkdir(candidate, 0755)
		if err == nil {
			return candidate, nil
		}
		if !os.IsExist(err) {
			return "", err
		}
		candidate = fmt.Sprintf("%s_%d", base, n)
	}
}

// load reads the metadata of a snapshot directory. Directories that do not
// look like snapshots are skipped; missing metadata is rebuilt from the
// directory itself.
func (s *Store) load(e fs.DirEntry) (domain.Snapshot, bool) {
	path := filepath.Join(s.dir, e.Name())

	data, err := os.ReadFile(path + metaSuffix)
	if err == nil {
		var snap domain.Snapshot
		if err := json.Unmarshal(data, &snap); err == nil {
			snap.SnapshotPath = path
			return snap, true
		}
		s.logger.Warn("malformed snapshot metadata", "snapshot", path)
	}

	m := namePattern.FindStringSubmatch(e.Name())
	if m == nil {
		return domain.Snapshot{}, false
	}
	info, err := e.Info()
	if err != nil {
		return domain.Snapshot{}, false
	}
	return domain.Snapshot{
		SnapshotPath: path,
		CreatedAt:    info.ModTime(),
		OriginalName: m[1],
	}, true
}

func writeMeta(snap *domain.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(snap.SnapshotPath+metaSuffix, data, 0644)
}

// sequence returns the same-second counter of a snapshot name, 0 if none.
func sequence(path string) int {
	m := namePattern.FindStringSubmatch(filepath.Base(path))
	if m == nil || m[3] == "" {
		return 0
	}
	n, err := strconv.Atoi(m[3])
	if err != nil {
		return 0
	}
	return n
}

// copyTree copies a directory recursively, skipping the snapshot directory
// when it lives inside src.
func (s *Store) copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path == s.dir {
			return filepath.SkipDir
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		out := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(out, info.Mode().Perm()|0700)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		return copyFile(path, out, info.Mode().Perm())
	})
}

// clearDir empties dir while keeping the snapshot directory when it lives
// inside it.
func (s *Store) clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		switch {
		case path == s.dir:
			continue
		case e.IsDir() && strings.HasPrefix(s.dir, path+string(filepath.Separator)):
			if err := s.clearDir(path); err != nil {
				return err
			}
		default:
			if err := os.RemoveAll(path); err != nil {
				return err
			}
		}
	}
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
