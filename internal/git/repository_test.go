package git

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	gitc "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initTestRepo creates a temporary git repository with an initial commit on "main".
func initTestRepo(t *testing.T) *Repository {
	t.Helper()

	dir := t.TempDir()

	repo, err := gitc.PlainInitWithOptions(dir, &gitc.PlainInitOptions{
		InitOptions: gitc.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName("main"),
		},
	})
	require.NoError(t, err)

	r := &Repository{repo: repo}
	commitFile(t, r, "README.md", "# test", "initial commit")
	return r
}

func commitFile(t *testing.T, r *Repository, name, content, message string) plumbing.Hash {
	t.Helper()

	wt, err := r.repo.Worktree()
	require.NoError(t, err)

	dir := wt.Filesystem.Root()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))

	_, err = wt.Add(name)
	require.NoError(t, err)

	hash, err := wt.Commit(message, &gitc.CommitOptions{
		Author: &object.Signature{
			Name:  "test",
			Email: "test@test.com",
		},
	})
	require.NoError(t, err)

	return hash
}

func tagCommit(t *testing.T, r *Repository, name string, hash plumbing.Hash) {
	t.Helper()
	_, err := r.repo.CreateTag(name, hash, nil)
	require.NoError(t, err)
}

func TestHeadHash_NilRepo(t *testing.T) {
	t.Parallel()

	r := &Repository{}
	hash, err := r.HeadHash()
	require.NoError(t, err)
	assert.Empty(t, hash)
}

func TestHeadHash_WithCommit(t *testing.T) {
	t.Parallel()

	r := initTestRepo(t)

	hash, err := r.HeadHash()
	require.NoError(t, err)
	assert.Len(t, hash, 40)
}

func TestLatestSemverTag_NoTags(t *testing.T) {
	t.Parallel()

	r := initTestRepo(t)

	tag, err := r.LatestSemverTag()
	require.NoError(t, err)
	assert.Nil(t, tag)
}

func TestLatestSemverTag_PicksHighest(t *testing.T) {
	t.Parallel()

	r := initTestRepo(t)

	for i, name := range []string{"v0.9.0", "v0.10.0", "not-a-version", "v0.2.0"} {
		hash := commitFile(t, r, fmt.Sprintf("f%d.txt", i), "x", "fix: change "+name)
		tagCommit(t, r, name, hash)
	}

	tag, err := r.LatestSemverTag()
	require.NoError(t, err)
	require.NotNil(t, tag)
	assert.Equal(t, "v0.10.0", tag.Name)
}

func TestCommitMessagesSince_StopsAtHash(t *testing.T) {
	t.Parallel()

	r := initTestRepo(t)

	tagged := commitFile(t, r, "a.txt", "a", "fix: tagged commit")
	commitFile(t, r, "b.txt", "b", "feat: after tag")
	commitFile(t, r, "c.txt", "c", "chore: latest")

	messages, err := r.CommitMessagesSince(tagged)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Contains(t, messages[0], "chore: latest")
	assert.Contains(t, messages[1], "feat: after tag")
}

func TestCommitMessagesSince_ZeroHashWalksAll(t *testing.T) {
	t.Parallel()

	r := initTestRepo(t)
	commitFile(t, r, "a.txt", "a", "fix: one")

	messages, err := r.CommitMessagesSince(plumbing.ZeroHash)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}
