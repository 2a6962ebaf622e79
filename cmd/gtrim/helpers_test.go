package main

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/raphi011/gtrim/internal/config"
	"github.com/raphi011/gtrim/internal/log"
	"github.com/raphi011/gtrim/internal/output"
)

// testEnv is a command context rooted at dir, capturing stdout and stderr.
type testEnv struct {
	ctx    context.Context
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(t *testing.T, dir string) *testEnv {
	t.Helper()
	c := config.Default()
	return newTestEnvWith(t, &env{Config: &c, Dir: dir})
}

func newTestEnvWith(t *testing.T, e *env) *testEnv {
	t.Helper()
	var stdout, stderr bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&stderr, false, false))
	// A buffer is not a terminal, so styling is stripped.
	ctx = output.WithPrinterValue(ctx, output.NewTerminal(&stdout, nil))
	ctx = withEnv(ctx, e)
	return &testEnv{ctx: ctx, stdout: &stdout, stderr: &stderr}
}

// run executes cmd with args in the test context.
func (te *testEnv) run(cmd *cobra.Command, args ...string) error {
	cmd.SetContext(te.ctx)
	cmd.SetArgs(args)
	cmd.SetOut(te.stdout)
	cmd.SetErr(te.stderr)
	return cmd.Execute()
}

// setupTestRepo creates an empty git repo with a main branch.
// Returns the resolved repo path.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	repoPath := filepath.Join(dir, "repo")
	gitCmd(t, dir, "init", "-b", "main", repoPath)
	return repoPath
}

func gitCmd(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}
