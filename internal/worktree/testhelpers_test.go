package worktree

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/worktree-agent/internal/runner"
)

// requireGit skips the test when the git binary is not installed.
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found on PATH")
	}
}

// setupTestRepo creates a temporary directory with an initialized Git
// repository containing a single commit. Worktree commands need at least one
// commit, because a new branch needs something to point to.
//
// A local user.name and user.email are configured so `git commit` works in
// CI environments without a global Git configuration.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	requireGit(t)

	dir := t.TempDir()

	runTestGit(t, dir, "init")
	runTestGit(t, dir, "config", "user.email", "test@example.com")
	runTestGit(t, dir, "config", "user.name", "Test User")
	runTestGit(t, dir, "config", "commit.gpgsign", "false")

	err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Test Repo\n"), 0644)
	require.NoError(t, err, "failed to create initial file")

	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", "initial commit")

	return dir
}

// runTestGit runs a git command in dir and fails the test immediately if it
// exits non-zero.
func runTestGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
	return string(output)
}

// resolved returns path with symlinks evaluated. On macOS t.TempDir() lives
// under /var, a symlink to /private/var, and git reports the resolved form.
func resolved(t *testing.T, path string) string {
	t.Helper()
	r, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return r
}

func runnerForTest() runner.Runner {
	return runner.NewExec()
}
