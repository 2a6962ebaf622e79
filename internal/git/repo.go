package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrDetachedHead is returned when a branch is needed but HEAD is detached.
var ErrDetachedHead = errors.New("HEAD is detached, pass a branch name")

// GetCurrentBranch returns the branch checked out at path.
// Uses: `git branch --show-current`
func GetCurrentBranch(ctx context.Context, path string) (string, error) {
	output, err := outputGit(ctx, path, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %w", err)
	}
	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "", ErrDetachedHead
	}
	return branch, nil
}

// FindGitDir walks up from path to the directory holding the repository
// config: the ".git" directory of a work tree, or the repository itself when
// bare. Linked worktrees (".git" file) resolve to the main repository.
// It does not need the git binary.
func FindGitDir(path string) (string, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	for {
		dotGit := filepath.Join(dir, ".git")
		if info, err := os.Stat(dotGit); err == nil {
			if info.IsDir() {
				return dotGit, nil
			}
			return gitDirFromFile(dotGit)
		}
		if isBareRepo(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not a git repository: %s", path)
		}
		dir = parent
	}
}

// gitDirFromFile follows a worktree ".git" file ("gitdir: <path>") back to
// the common directory of the main repository.
func gitDirFromFile(dotGit string) (string, error) {
	data, err := os.ReadFile(dotGit)
	if err != nil {
		return "", err
	}
	content := strings.TrimSpace(string(data))
	gitdir, ok := strings.CutPrefix(content, "gitdir: ")
	if !ok {
		return "", fmt.Errorf("invalid .git file: %s", dotGit)
	}
	if !filepath.IsAbs(gitdir) {
		gitdir = filepath.Join(filepath.Dir(dotGit), gitdir)
	}
	// <main>/.git/worktrees/<name> -> <main>/.git
	if filepath.Base(filepath.Dir(gitdir)) == "worktrees" {
		return filepath.Dir(filepath.Dir(gitdir)), nil
	}
	return gitdir, nil
}

func isBareRepo(dir string) bool {
	for _, name := range []string{"HEAD", "config", "objects"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}
