package gitinfo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

// Repository implements domain.GitInfo using go-git. Paths inside a
// repository resolve to the enclosing work tree.
type Repository struct{}

func New() *Repository {
	return &Repository{}
}

func open(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
}

func (r *Repository) IsGitRepo(path string) bool {
	_, err := open(path)
	return err == nil
}

func (r *Repository) CommitHash(path string) (string, error) {
	repo, err := open(path)
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// Modified reports whether path has uncommitted changes in its work tree.
func (r *Repository) Modified(path string) (bool, error) {
	repo, err := open(path)
	if err != nil {
		return false, fmt.Errorf("opening git repo: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("opening worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("reading status: %w", err)
	}
	return !status.IsClean(), nil
}
