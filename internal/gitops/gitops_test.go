package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthor = Author{Name: "Test Author", Email: "test@example.com"}

func requireGit(t *testing.T) {
	t.Helper()
	if !Available() {
		t.Skip("git not installed")
	}
}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	_, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
}

func TestIsRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestCommitAll(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "tally.json"), []byte("{}"), 0o644))

	hash, err := CommitAll(dir, "tally: add expense", testAuthor)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	// Verify commit message.
	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "tally: add expense")

	// Verify author.
	authorLog := exec.Command("git", "log", "--format=%an <%ae>", "-1")
	authorLog.Dir = dir
	out, err = authorLog.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), testAuthor.String())
}

func TestCommitAll_NothingToCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tally.json"), []byte("{}"), 0o644))
	_, err := CommitAll(dir, "first", testAuthor)
	require.NoError(t, err)

	hash, err := CommitAll(dir, "second", testAuthor)
	require.NoError(t, err)
	assert.Empty(t, hash)

	changed, err := HasChanges(dir)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestCommitAll_NotARepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	// Stop git from finding an enclosing repository.
	t.Setenv("GIT_CEILING_DIRECTORIES", dir)
	nested := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	_, err := CommitAll(nested, "msg", testAuthor)
	assert.ErrorContains(t, err, "git status")
}
