package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	t    *testing.T
	repo *git.Repository
	fs   billy.Filesystem
	n    int
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	fs := memfs.New()
	repo, err := git.Init(memory.NewStorage(), fs)
	require.NoError(t, err)
	return &testRepo{t: t, repo: repo, fs: fs}
}

// commit writes a fresh file so every commit has content, then commits it.
func (r *testRepo) commit(message string) plumbing.Hash {
	r.t.Helper()
	r.n++
	name := fmt.Sprintf("file-%d.txt", r.n)

	f, err := r.fs.Create(name)
	require.NoError(r.t, err)
	_, err = f.Write([]byte(message))
	require.NoError(r.t, err)
	require.NoError(r.t, f.Close())

	wt, err := r.repo.Worktree()
	require.NoError(r.t, err)
	_, err = wt.Add(name)
	require.NoError(r.t, err)

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "dev",
			Email: "dev@example.com",
			When:  time.Now().Add(time.Duration(r.n) * time.Second),
		},
	})
	require.NoError(r.t, err)
	return hash
}

func (r *testRepo) lightweightTag(name string, hash plumbing.Hash) {
	r.t.Helper()
	_, err := r.repo.CreateTag(name, hash, nil)
	require.NoError(r.t, err)
}

// rawCommit stores a commit with explicit parents without touching HEAD.
func (r *testRepo) rawCommit(message string, parents ...plumbing.Hash) plumbing.Hash {
	r.t.Helper()
	r.n++
	st := r.repo.Storer

	treeObj := st.NewEncodedObject()
	require.NoError(r.t, (&object.Tree{}).Encode(treeObj))
	treeHash, err := st.SetEncodedObject(treeObj)
	require.NoError(r.t, err)

	sig := object.Signature{
		Name:  "dev",
		Email: "dev@example.com",
		When:  time.Now().Add(time.Duration(r.n) * time.Second),
	}
	c := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      message,
		TreeHash:     treeHash,
		ParentHashes: parents,
	}
	obj := st.NewEncodedObject()
	require.NoError(r.t, c.Encode(obj))
	hash, err := st.SetEncodedObject(obj)
	require.NoError(r.t, err)
	return hash
}

func (r *testRepo) setHead(hash plumbing.Hash) {
	r.t.Helper()
	require.NoError(r.t, r.repo.Storer.SetReference(plumbing.NewHashReference(plumbing.Master, hash)))
}

func messagesOf(cs []Commit) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Message)
	}
	return out
}

func TestGitRepositoryNoTags(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit("chore: init")
	tr.commit("feat: first feature")
	repo := NewGitRepositoryFrom(tr.repo, "")
	ctx := context.Background()

	last, err := repo.LastRelease(ctx, "v")
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	got, err := repo.CommitsSince(ctx, last)
	require.NoError(t, err)
	assert.Equal(t, []string{"feat: first feature", "chore: init"}, messagesOf(got))
	assert.Equal(t, "dev", got[0].Author)
}

func TestGitRepositoryCommitsSinceTag(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit("chore: init")
	released := tr.commit("feat: shipped")
	tr.lightweightTag("v1.0.0", released)
	tr.commit("fix: after release")
	tr.commit("docs: readme")

	repo := NewGitRepositoryFrom(tr.repo, "")
	ctx := context.Background()

	last, err := repo.LastRelease(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, LastRelease{Version: "1.0.0", GitTag: "v1.0.0", Hash: released.String()}, last)

	got, err := repo.CommitsSince(ctx, last)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs: readme", "fix: after release"}, messagesOf(got))
	assert.Equal(t, ReleasePatch, Classify(got).Type)
}

func TestGitRepositoryCommitsSinceMerge(t *testing.T) {
	tr := newTestRepo(t)
	base := tr.rawCommit("chore: init")
	released := tr.rawCommit("fix: shipped", base)
	tr.lightweightTag("v1.0.0", released)

	feature := tr.rawCommit("feat: on feature branch", released)
	onMain := tr.rawCommit("docs: on main", released)
	merge := tr.rawCommit("Merge branch 'feature'", onMain, feature)
	tr.setHead(merge)

	repo := NewGitRepositoryFrom(tr.repo, "")
	ctx := context.Background()

	last, err := repo.LastRelease(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, released.String(), last.Hash)

	got, err := repo.CommitsSince(ctx, last)
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"Merge branch 'feature'", "docs: on main", "feat: on feature branch"},
		messagesOf(got))
	assert.Equal(t, ReleaseMinor, Classify(got).Type)
}

func TestGitRepositoryCommitsSinceMergeOfOldBranch(t *testing.T) {
	tr := newTestRepo(t)
	base := tr.rawCommit("chore: init")
	old := tr.rawCommit("feat: already released", base)
	released := tr.rawCommit("Merge branch 'old'", base, old)
	tr.lightweightTag("v1.0.0", released)
	head := tr.rawCommit("fix: after", released)
	tr.setHead(head)

	repo := NewGitRepositoryFrom(tr.repo, "")
	ctx := context.Background()

	last, err := repo.LastRelease(ctx, "v")
	require.NoError(t, err)

	got, err := repo.CommitsSince(ctx, last)
	require.NoError(t, err)
	assert.Equal(t, []string{"fix: after"}, messagesOf(got))
}

func TestGitRepositoryLastReleaseIgnoresOtherBranches(t *testing.T) {
	tr := newTestRepo(t)
	shipped := tr.commit("feat: a")
	tr.lightweightTag("v1.0.0", shipped)

	side := tr.rawCommit("feat: side", shipped)
	tr.lightweightTag("v9.0.0", side)

	tr.commit("fix: b")

	repo := NewGitRepositoryFrom(tr.repo, "")
	ctx := context.Background()

	last, err := repo.LastRelease(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", last.Version)
	assert.Equal(t, shipped.String(), last.Hash)

	got, err := repo.CommitsSince(ctx, last)
	require.NoError(t, err)
	assert.Equal(t, []string{"fix: b"}, messagesOf(got))
}

func TestGitRepositoryLastReleaseEmpty(t *testing.T) {
	tr := newTestRepo(t)

	last, err := NewGitRepositoryFrom(tr.repo, "").LastRelease(context.Background(), "v")
	require.NoError(t, err)
	assert.True(t, last.IsZero())
}

func TestGitRepositoryLastReleasePicksHighest(t *testing.T) {
	tr := newTestRepo(t)
	a := tr.commit("feat: a")
	b := tr.commit("feat: b")
	c := tr.commit("feat: c")
	tr.lightweightTag("v1.9.0", a)
	tr.lightweightTag("v1.10.0", b)
	tr.lightweightTag("v2.0.0-rc.1", c)
	tr.lightweightTag("nightly", c)

	last, err := NewGitRepositoryFrom(tr.repo, "").LastRelease(context.Background(), "v")
	require.NoError(t, err)
	assert.Equal(t, "1.10.0", last.Version)
	assert.Equal(t, b.String(), last.Hash)
}

func TestGitRepositoryCreateTag(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit("feat: a")
	head := tr.commit("fix: b")
	repo := NewGitRepositoryFrom(tr.repo, "")
	ctx := context.Background()

	require.NoError(t, repo.CreateTag(ctx, "v1.0.0", "## 1.0.0\n\n- fix: b\n- feat: a"))

	last, err := repo.LastRelease(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", last.GitTag)
	assert.Equal(t, head.String(), last.Hash, "annotated tag peels to its commit")

	got, err := repo.CommitsSince(ctx, last)
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.Error(t, repo.CreateTag(ctx, "v1.0.0", "again"))
}

func TestGitRepositoryBranch(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit("chore: init")

	branch, err := NewGitRepositoryFrom(tr.repo, "").Branch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "master", branch)
}

func TestGitRepositoryEmpty(t *testing.T) {
	tr := newTestRepo(t)

	_, err := NewGitRepositoryFrom(tr.repo, "").CommitsSince(context.Background(), LastRelease{})
	assert.Equal(t, KindRepository, KindOf(err))
}

func TestOpenGitRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	nested := filepath.Join(dir, "sub", "dir")
	require.NoError(t, os.MkdirAll(nested, 0755))

	repo, err := OpenGitRepository(nested)
	require.NoError(t, err)
	assert.Equal(t, dir, repo.Root())
}

func TestOpenGitRepositoryNotARepo(t *testing.T) {
	_, err := OpenGitRepository(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRepository)
}

func TestFindGitDir(t *testing.T) {
	dir := t.TempDir()
	gitDir := filepath.Join(dir, ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0755))

	found, err := FindGitDir(dir)
	assert.NoError(t, err)
	assert.Equal(t, gitDir, found)
}
