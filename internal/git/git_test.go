package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthor = &object.Signature{Name: "Test", Email: "test@test.com"}

// initRepo creates a repository with one commit on master and a draft
// directory, and returns it opened through Open.
func initRepo(t *testing.T) *Repo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "draft"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# TWiR"), 0o644))
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("Initial commit", &git.CommitOptions{Author: testAuthor})
	require.NoError(t, err)

	r, err := Open(dir)
	require.NoError(t, err)
	r.Author = testAuthor
	return r
}

// addBareRemote creates a bare repository and registers it as name.
func addBareRemote(t *testing.T, r *Repo, name string) *git.Repository {
	t.Helper()

	dir := t.TempDir()
	bare, err := git.PlainInit(dir, true)
	require.NoError(t, err)
	_, err = r.repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{dir}})
	require.NoError(t, err)
	return bare
}

func TestOpen(t *testing.T) {
	t.Parallel()

	r := initRepo(t)

	sub, err := Open(filepath.Join(r.Root(), "draft"))
	require.NoError(t, err)
	assert.Equal(t, r.Root(), sub.Root())

	_, err = Open(t.TempDir())
	assert.Error(t, err)
}

func TestBranches(t *testing.T) {
	t.Parallel()

	r := initRepo(t)
	require.NoError(t, r.CreateBranch("twir-530"))
	require.NoError(t, r.CreateBranch("twir-531"))

	current, err := r.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "twir-531", current)

	names, err := r.LocalBranches()
	require.NoError(t, err)
	assert.Equal(t, []string{"master", "twir-530", "twir-531"}, names)

	require.NoError(t, r.Checkout("master"))
	current, err = r.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "master", current)

	err = r.CreateBranch("twir-530")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateBranch_KeepsUntrackedDraft(t *testing.T) {
	t.Parallel()

	r := initRepo(t)
	draft := filepath.Join(r.Root(), "draft", "2024-01-10-this-week-in-rust.md")
	require.NoError(t, os.WriteFile(draft, []byte("Number: 530"), 0o644))

	require.NoError(t, r.CreateBranch("twir-530"))

	content, err := os.ReadFile(draft)
	require.NoError(t, err)
	assert.Equal(t, "Number: 530", string(content))
}

func TestCommitAndPush(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := initRepo(t)
	fork := addBareRemote(t, r, "fork")

	require.NoError(t, r.CreateBranch("twir-530"))
	require.NoError(t, os.WriteFile(filepath.Join(r.Root(), "draft", "issue.md"), []byte("Number: 530\n"), 0o644))
	require.NoError(t, r.Add("draft/issue.md"))
	hash, err := r.Commit("C/QotW and notable changes")
	require.NoError(t, err)

	require.NoError(t, r.Push(ctx, "fork", "twir-530"))

	ref, err := fork.Reference(plumbing.NewBranchReferenceName("twir-530"), false)
	require.NoError(t, err)
	assert.Equal(t, hash, ref.Hash())

	// Pushing again is a no-op.
	require.NoError(t, r.Push(ctx, "fork", "twir-530"))

	require.NoError(t, r.DeleteRemoteBranch(ctx, "fork", "twir-530"))
	_, err = fork.Reference(plumbing.NewBranchReferenceName("twir-530"), false)
	assert.ErrorIs(t, err, plumbing.ErrReferenceNotFound)
}

func TestPull_UpToDate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := initRepo(t)
	addBareRemote(t, r, "origin")
	require.NoError(t, r.Push(ctx, "origin", "master"))

	assert.NoError(t, r.Pull(ctx, "origin"))
}

func TestPull_UnknownRemote(t *testing.T) {
	t.Parallel()

	r := initRepo(t)
	err := r.Pull(context.Background(), "upstream")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git pull upstream")
}

func TestDeleteBranch(t *testing.T) {
	t.Parallel()

	r := initRepo(t)
	require.NoError(t, r.CreateBranch("twir-529"))

	err := r.DeleteBranch("twir-529")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checked out")

	require.NoError(t, r.Checkout("master"))
	require.NoError(t, r.DeleteBranch("twir-529"))

	names, err := r.LocalBranches()
	require.NoError(t, err)
	assert.Equal(t, []string{"master"}, names)

	assert.Error(t, r.DeleteBranch("twir-529"))
}

func TestAllBranches(t *testing.T) {
	t.Parallel()

	r := initRepo(t)
	head, err := r.repo.Head()
	require.NoError(t, err)
	for _, name := range []string{"refs/remotes/origin/master", "refs/remotes/fork/twir-529"} {
		ref := plumbing.NewHashReference(plumbing.ReferenceName(name), head.Hash())
		require.NoError(t, r.repo.Storer.SetReference(ref))
	}

	got, err := r.AllBranches()
	require.NoError(t, err)
	assert.Equal(t, []BranchInfo{
		{Name: "master"},
		{Name: "twir-529", IsRemote: true, Remote: "fork"},
	}, got)
}

func TestAddBranchWithDedup(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		existing []BranchInfo
		info     BranchInfo
		seen     map[string]bool
		want     []BranchInfo
	}{
		"new local": {
			info: BranchInfo{Name: "master"},
			seen: map[string]bool{},
			want: []BranchInfo{{Name: "master"}},
		},
		"remote after local is skipped": {
			existing: []BranchInfo{{Name: "master"}},
			info:     BranchInfo{Name: "master", IsRemote: true, Remote: "origin"},
			seen:     map[string]bool{"master": true},
			want:     []BranchInfo{{Name: "master"}},
		},
		"local replaces remote": {
			existing: []BranchInfo{{Name: "twir-530", IsRemote: true, Remote: "fork"}},
			info:     BranchInfo{Name: "twir-530"},
			seen:     map[string]bool{"twir-530": true},
			want:     []BranchInfo{{Name: "twir-530"}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			existing := append([]BranchInfo(nil), tt.existing...)
			seen := make(map[string]bool, len(tt.seen))
			for k, v := range tt.seen {
				seen[k] = v
			}
			assert.Equal(t, tt.want, addBranchWithDedup(existing, tt.info, seen))
		})
	}
}

func TestIsSSHURL(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		url  string
		want bool
	}{
		"scp style":   {url: "git@github.com:user/this-week-in-rust.git", want: true},
		"ssh scheme":  {url: "ssh://git@github.com/user/repo.git", want: true},
		"git+ssh":     {url: "git+ssh://git@github.com/user/repo.git", want: true},
		"https":       {url: "https://github.com/user/repo.git", want: false},
		"local path":  {url: "/srv/git/repo.git", want: false},
		"file scheme": {url: "file:///srv/git/repo.git", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, isSSHURL(tt.url))
		})
	}
}

// Not parallel: modifies the environment.
func TestGetAuthForURL(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")
	t.Setenv("GIT_USERNAME", "")
	t.Setenv("GIT_PASSWORD", "")
	t.Setenv("GITHUB_TOKEN", "tok")

	assert.Nil(t, getAuthForURL("git@github.com:user/repo.git"))
	assert.Nil(t, getAuthForURL("/srv/git/repo.git"))
	assert.NotNil(t, getAuthForURL("https://github.com/user/repo.git"))

	t.Setenv("GITHUB_TOKEN", "")
	assert.Nil(t, getAuthForURL("https://github.com/user/repo.git"))
}

func TestSetDebugLogger(t *testing.T) {
	var got []string
	SetDebugLogger(func(format string, _ ...any) { got = append(got, format) })
	t.Cleanup(func() { SetDebugLogger(nil) })

	logDebug("[git] hello %s", "world")
	assert.Equal(t, []string{"[git] hello %s"}, got)
}
