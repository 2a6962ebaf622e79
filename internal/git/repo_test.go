package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// resolveTempDir creates a temp directory and resolves macOS symlinks.
func resolveTempDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("failed to resolve symlinks for %s: %v", tmpDir, err)
	}
	return resolved
}

// setupTestRepo creates an empty git repo with a main branch.
// Returns the resolved repo path.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	if err := CheckGit(); err != nil {
		t.Skip(err)
	}

	repoPath := filepath.Join(resolveTempDir(t), "test-repo")
	if err := runGit(context.Background(), "", "init", "-b", "main", repoPath); err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	return repoPath
}

// setConfig runs `git config` for each key/value pair in the repo.
func setConfig(t *testing.T, repoPath string, pairs ...[2]string) {
	t.Helper()
	for _, p := range pairs {
		if err := runGit(context.Background(), repoPath, "config", p[0], p[1]); err != nil {
			t.Fatalf("git config %s %s: %v", p[0], p[1], err)
		}
	}
}

func TestGetCurrentBranch(t *testing.T) {
	t.Parallel()
	repoPath := setupTestRepo(t)

	branch, err := GetCurrentBranch(context.Background(), repoPath)
	if err != nil {
		t.Fatalf("GetCurrentBranch() error = %v", err)
	}
	if branch != "main" {
		t.Errorf("GetCurrentBranch() = %q, want main", branch)
	}
}

func TestGetCurrentBranch_Detached(t *testing.T) {
	t.Parallel()
	repoPath := setupTestRepo(t)
	ctx := context.Background()

	setConfig(t, repoPath,
		[2]string{"user.email", "test@test.com"},
		[2]string{"user.name", "Test User"},
		[2]string{"commit.gpgsign", "false"},
	)
	if err := runGit(ctx, repoPath, "commit", "--allow-empty", "-m", "initial"); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := runGit(ctx, repoPath, "checkout", "--detach"); err != nil {
		t.Fatalf("detach: %v", err)
	}

	_, err := GetCurrentBranch(ctx, repoPath)
	if !errors.Is(err, ErrDetachedHead) {
		t.Errorf("GetCurrentBranch() error = %v, want ErrDetachedHead", err)
	}
}

func TestFindGitDir(t *testing.T) {
	t.Parallel()
	repoPath := setupTestRepo(t)

	sub := filepath.Join(repoPath, "a", "b")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := FindGitDir(sub)
	if err != nil {
		t.Fatalf("FindGitDir() error = %v", err)
	}
	if want := filepath.Join(repoPath, ".git"); got != want {
		t.Errorf("FindGitDir() = %q, want %q", got, want)
	}
}

func TestFindGitDir_Bare(t *testing.T) {
	t.Parallel()
	if err := CheckGit(); err != nil {
		t.Skip(err)
	}

	bare := filepath.Join(resolveTempDir(t), "origin.git")
	if err := runGit(context.Background(), "", "init", "--bare", bare); err != nil {
		t.Fatalf("init bare: %v", err)
	}

	got, err := FindGitDir(bare)
	if err != nil {
		t.Fatalf("FindGitDir() error = %v", err)
	}
	if got != bare {
		t.Errorf("FindGitDir() = %q, want %q", got, bare)
	}
}

func TestFindGitDir_WorktreeFile(t *testing.T) {
	t.Parallel()

	root := resolveTempDir(t)
	mainGit := filepath.Join(root, "main", ".git")
	wt := filepath.Join(root, "linked")
	for _, dir := range []string{filepath.Join(mainGit, "worktrees", "linked"), wt} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	content := "gitdir: " + filepath.Join(mainGit, "worktrees", "linked") + "\n"
	if err := os.WriteFile(filepath.Join(wt, ".git"), []byte(content), 0644); err != nil {
		t.Fatalf("write .git file: %v", err)
	}

	got, err := FindGitDir(wt)
	if err != nil {
		t.Fatalf("FindGitDir() error = %v", err)
	}
	if got != mainGit {
		t.Errorf("FindGitDir() = %q, want %q", got, mainGit)
	}
}
