// Package git drives the newsletter checkout: listing and switching
// branches, pulling upstream, committing the edited draft and pushing the
// submission branch to the editor's fork. All operations use go-git.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	twerrors "github.com/twirer/twirer/internal/errors"
)

// debugLogger is a no-op until SetDebugLogger installs one.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Repo is an opened newsletter checkout.
type Repo struct {
	repo *git.Repository
	root string
	// Author signs commits. When nil the repository's git config is used.
	Author *object.Signature
}

// Open opens the repository containing path.
func Open(path string) (*Repo, error) {
	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	return &Repo{repo: repo, root: wt.Filesystem.Root()}, nil
}

// Root returns the worktree root.
func (r *Repo) Root() string {
	return r.root
}

// CurrentBranch returns the checked out branch, or "" on a detached HEAD.
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	if !head.Name().IsBranch() {
		logDebug("[git] CurrentBranch: detached HEAD state")
		return "", nil
	}
	return head.Name().Short(), nil
}

// BranchInfo describes a local or remote-tracking branch.
type BranchInfo struct {
	Name     string
	IsRemote bool
	Remote   string
}

// LocalBranches returns the sorted names of the local branches.
func (r *Repo) LocalBranches() ([]string, error) {
	branches, err := collectLocalBranches(r.repo, nil, map[string]bool{})
	if err != nil {
		return nil, err
	}
	names := make([]string, len(branches))
	for i, b := range branches {
		names[i] = b.Name
	}
	sort.Strings(names)
	return names, nil
}

// AllBranches returns local and remote-tracking branches, deduplicated by
// name with local branches preferred.
func (r *Repo) AllBranches() ([]BranchInfo, error) {
	seen := make(map[string]bool)
	branches, err := collectLocalBranches(r.repo, nil, seen)
	if err != nil {
		return nil, err
	}
	branches, err = collectRemoteBranches(r.repo, branches, seen)
	if err != nil {
		return nil, err
	}

	sort.Slice(branches, func(i, j int) bool {
		return branches[i].Name < branches[j].Name
	})
	logDebug("[git] AllBranches: found %d branches", len(branches))
	return branches, nil
}

func collectLocalBranches(repo *git.Repository, branches []BranchInfo, seen map[string]bool) ([]BranchInfo, error) {
	iter, err := repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("listing local branches: %w", err)
	}

	err = iter.ForEach(func(ref *plumbing.Reference) error {
		branches = addBranchWithDedup(branches, BranchInfo{Name: ref.Name().Short()}, seen)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating local branches: %w", err)
	}
	return branches, nil
}

func collectRemoteBranches(repo *git.Repository, branches []BranchInfo, seen map[string]bool) ([]BranchInfo, error) {
	iter, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("listing references: %w", err)
	}

	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsRemote() {
			return nil
		}
		remote, name, ok := strings.Cut(ref.Name().Short(), "/")
		if !ok || name == "HEAD" {
			return nil
		}
		branches = addBranchWithDedup(branches, BranchInfo{Name: name, IsRemote: true, Remote: remote}, seen)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating remote branches: %w", err)
	}
	return branches, nil
}

// addBranchWithDedup appends info unless its name was seen. A local branch
// replaces a remote one of the same name in place.
func addBranchWithDedup(branches []BranchInfo, info BranchInfo, seen map[string]bool) []BranchInfo {
	if seen[info.Name] {
		if !info.IsRemote {
			for i, b := range branches {
				if b.Name == info.Name && b.IsRemote {
					branches[i] = info
					break
				}
			}
		}
		return branches
	}

	seen[info.Name] = true
	return append(branches, info)
}

// Checkout switches to an existing local branch, keeping local changes.
func (r *Repo) Checkout(name string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	err = wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Keep:   true,
	})
	if err != nil {
		return fmt.Errorf("checking out '%s': %w", name, err)
	}
	logDebug("[git] Checkout: %s", name)
	return nil
}

// CreateBranch creates a branch at HEAD and checks it out. Untracked files
// are kept.
func (r *Repo) CreateBranch(name string) error {
	if err := checkBranchExists(r.repo, name); err != nil {
		return err
	}

	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	err = wt.Checkout(&git.CheckoutOptions{
		Hash:   head.Hash(),
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
		Keep:   true,
	})
	if err != nil {
		return fmt.Errorf("creating branch '%s': %w", name, err)
	}

	logDebug("[git] CreateBranch: created and checked out %s", name)
	return nil
}

func checkBranchExists(repo *git.Repository, name string) error {
	_, err := repo.Reference(plumbing.NewBranchReferenceName(name), false)
	if err == nil {
		return fmt.Errorf("branch '%s' already exists", name)
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fmt.Errorf("checking branch existence: %w", err)
	}
	return nil
}

// Add stages a path relative to the worktree root.
func (r *Repo) Add(path string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if _, err := wt.Add(path); err != nil {
		return fmt.Errorf("adding %s: %w", path, err)
	}
	return nil
}

// Commit records the staged changes.
func (r *Repo) Commit(msg string) (plumbing.Hash, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("getting worktree: %w", err)
	}
	hash, err := wt.Commit(msg, &git.CommitOptions{Author: r.Author})
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("committing: %w", err)
	}
	logDebug("[git] Commit: %s", hash)
	return hash, nil
}

// Pull fast-forwards the current branch from remote.
func (r *Repo) Pull(ctx context.Context, remote string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName: remote,
		Auth:       r.authFor(remote),
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		logDebug("[git] Pull: %s already up to date", remote)
		return nil
	}
	return twerrors.Collaborator("git pull "+remote, err)
}

// Push publishes a local branch to remote under the same name.
func (r *Repo) Push(ctx context.Context, remote, branch string) error {
	ref := plumbing.NewBranchReferenceName(branch)
	return r.push(ctx, "git push "+remote, remote, config.RefSpec(ref+":"+ref))
}

// DeleteRemoteBranch removes branch from remote.
func (r *Repo) DeleteRemoteBranch(ctx context.Context, remote, branch string) error {
	ref := plumbing.NewBranchReferenceName(branch)
	return r.push(ctx, "git push --delete "+remote, remote, config.RefSpec(":"+ref))
}

func (r *Repo) push(ctx context.Context, op, remote string, spec config.RefSpec) error {
	logDebug("[git] pushing %s to %s", spec, remote)
	err := r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []config.RefSpec{spec},
		Auth:       r.authFor(remote),
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return twerrors.Collaborator(op, err)
}

// DeleteBranch removes a local branch. The checked out branch cannot be
// deleted.
func (r *Repo) DeleteBranch(name string) error {
	ref := plumbing.NewBranchReferenceName(name)
	if _, err := r.repo.Reference(ref, false); err != nil {
		return fmt.Errorf("branch '%s' not found: %w", name, err)
	}
	if head, err := r.repo.Head(); err == nil && head.Name() == ref {
		return fmt.Errorf("cannot delete branch '%s': it is checked out", name)
	}

	if err := r.repo.Storer.RemoveReference(ref); err != nil {
		return fmt.Errorf("deleting branch '%s': %w", name, err)
	}
	if err := r.repo.DeleteBranch(name); err != nil && !errors.Is(err, git.ErrBranchNotFound) {
		return fmt.Errorf("deleting branch '%s' config: %w", name, err)
	}
	logDebug("[git] DeleteBranch: %s", name)
	return nil
}

func (r *Repo) authFor(remoteName string) transport.AuthMethod {
	remote, err := r.repo.Remote(remoteName)
	if err != nil || len(remote.Config().URLs) == 0 {
		return nil
	}
	return getAuthForURL(remote.Config().URLs[0])
}

// getAuthForURL uses the SSH agent for SSH remotes and GIT_USERNAME,
// GIT_PASSWORD or GITHUB_TOKEN for HTTPS remotes.
func getAuthForURL(url string) transport.AuthMethod {
	if isSSHURL(url) {
		if !isSSHAgentAvailable() {
			logDebug("[git] no SSH agent for %s", url)
			return nil
		}
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			logDebug("[git] SSH agent auth failed: %v", err)
			return nil
		}
		return auth
	}
	if !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
		return nil
	}

	username := os.Getenv("GIT_USERNAME")
	password := os.Getenv("GIT_PASSWORD")
	if username == "" {
		// A GitHub token works as username with an empty password.
		username = os.Getenv("GITHUB_TOKEN")
		password = ""
	}
	if username == "" {
		return nil
	}
	return &http.BasicAuth{Username: username, Password: password}
}

func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

func isSSHAgentAvailable() bool {
	return strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK")) != ""
}
