package vcs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadCommit(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err, "failed to initialize git repo")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "project.godot"), []byte("[application]\n"), 0o644))
	w, err := repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add("project.godot")
	require.NoError(t, err)
	hash, err := w.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	sub := filepath.Join(dir, "addons")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	got, err := HeadCommit(sub)
	require.NoError(t, err)
	assert.Equal(t, hash.String(), got)
	assert.Len(t, ShortHash(got), 8)
}

func TestHeadCommitOutsideRepository(t *testing.T) {
	_, err := HeadCommit(t.TempDir())
	require.ErrorIs(t, err, ErrNotRepository)
}
