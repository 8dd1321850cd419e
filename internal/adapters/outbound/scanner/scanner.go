package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/codejanitor/janitor/internal/domain"
)

// skipDirs are never descended into, whatever the exclude globs say.
var skipDirs = map[string]bool{
	".git":          true,
	".hg":           true,
	".mypy_cache":   true,
	".ruff_cache":   true,
	".pytest_cache": true,
	"__pycache__":   true,
}

// FileScanner implements domain.TargetScanner by walking the filesystem.
type FileScanner struct {
	extensions map[string]bool
	exclude    []string
}

func New(cfg domain.ScanConfig) *FileScanner {
	exts := make(map[string]bool, len(cfg.Extensions))
	for _, e := range cfg.Extensions {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[strings.ToLower(e)] = true
	}
	if len(exts) == 0 {
		exts[".py"] = true
	}
	return &FileScanner{extensions: exts, exclude: cfg.Exclude}
}

// Files returns the source files under target in lexical order. A file
// target is returned as is.
func (s *FileScanner) Files(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{target}, nil
	}

	var files []string
	err = filepath.WalkDir(target, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(target, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != target && (skipDirs[d.Name()] || s.excluded(rel) || s.excluded(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.extensions[strings.ToLower(filepath.Ext(path))] || s.excluded(rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// excluded matches rel against the exclude globs. Patterns are anchored at
// the scan root; a leading **/ also matches at the root itself.
func (s *FileScanner) excluded(rel string) bool {
	for _, pattern := range s.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if trimmed, found := strings.CutPrefix(pattern, "**/"); found {
			if ok, _ := doublestar.Match(trimmed, rel); ok {
				return true
			}
		}
	}
	return false
}
