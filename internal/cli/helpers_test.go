package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/twirer/twirer/internal/config"
	"github.com/twirer/twirer/internal/search"
	"github.com/twirer/twirer/internal/store"
)

const testWeek = "2024-01-02..2024-01-09"

const readyDraft = `Title: This Week in Rust 530
Number: 530

## Crate of the Week

<!-- COTW goes here -->

## Quote of the Week

<!-- QOTW goes here -->

## Updates from the Rust Project

<!-- Rust updates go here -->

## Call for Testing

Nothing this week.
`

// testEnv is a workspace with a config file, a record cache and a
// newsletter checkout directory.
type testEnv struct {
	dir     string
	twirDir string
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	env := &testEnv{
		dir:     dir,
		twirDir: filepath.Join(dir, "this-week-in-rust"),
		out:     &bytes.Buffer{},
		errOut:  &bytes.Buffer{},
	}
	require.NoError(t, os.MkdirAll(env.twirDir, 0o755))
	return env
}

// app loads a flat config made of the workspace paths and lines.
func (e *testEnv) app(t *testing.T, lines ...string) *app {
	t.Helper()

	base := []string{
		"twir_dir=" + e.twirDir,
		"cache_dir=" + filepath.Join(e.dir, "cache"),
		"state_dir=" + filepath.Join(e.dir, "state"),
	}
	path := filepath.Join(e.dir, "config")
	content := strings.Join(append(base, lines...), "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: path,
		UserConfigPath:    "-",
		SkipWarnings:      true,
	})
	require.NoError(t, err)

	a := &app{
		cfg:    cfg,
		log:    zap.NewNop(),
		in:     strings.NewReader(""),
		out:    e.out,
		errOut: e.errOut,
		hist:   &historyRecorder{},
	}
	t.Cleanup(func() { a.Close() })
	return a
}

// seed saves records into the app's store.
func seed(t *testing.T, a *app, records map[string][]string) {
	t.Helper()

	st, err := a.store()
	require.NoError(t, err)
	for name, lines := range records {
		require.NoError(t, st.Save(context.Background(), name, lines))
	}
}

func loadRecord(t *testing.T, a *app, name string) []string {
	t.Helper()

	st, err := a.store()
	require.NoError(t, err)
	lines, err := st.Load(context.Background(), name)
	require.NoError(t, err)
	return lines
}

func loadText(t *testing.T, a *app, name string) string {
	t.Helper()

	st, err := a.store()
	require.NoError(t, err)
	text, err := store.LoadText(context.Background(), st, name)
	require.NoError(t, err)
	return text
}

// writeDraft writes contents as the draft of the checkout.
func (e *testEnv) writeDraft(t *testing.T, contents string) string {
	t.Helper()

	dir := filepath.Join(e.twirDir, "draft")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "2024-01-10-this-week-in-rust.md")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// initCheckout turns the checkout directory into a repository with one
// commit on master.
func (e *testEnv) initCheckout(t *testing.T) *gogit.Repository {
	t.Helper()

	repo, err := gogit.PlainInit(e.twirDir, false)
	require.NoError(t, err)

	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.User.Name = "Test"
	cfg.User.Email = "test@test.com"
	require.NoError(t, repo.SetConfig(cfg))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(e.twirDir, "README.md"), []byte("# TWiR\n"), 0o644))
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("Initial commit", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com"},
	})
	require.NoError(t, err)
	return repo
}

// argsRecorder writes a script that stores its arguments, one per line.
func argsRecorder(t *testing.T) (script, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}

	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args")
	script = filepath.Join(dir, "record.sh")
	content := "#!/bin/sh\nprintf '%s\\n' \"$@\" > '" + argsFile + "'\n"
	require.NoError(t, os.WriteFile(script, []byte(content), 0o755))
	return script, argsFile
}

func readArgs(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

type fakeSearch struct {
	listing *search.Listing
	err     error
	query   string
}

func (f *fakeSearch) Merged(_ context.Context, query string) (*search.Listing, error) {
	f.query = query
	return f.listing, f.err
}

func twoPRs() *fakeSearch {
	return &fakeSearch{listing: &search.Listing{
		Total: 2,
		Records: []search.Record{
			{Title: "Rollup of 5 pull requests", URL: "https://github.com/rust-lang/rust/pull/10"},
			{Title: "Fix the thing", URL: "https://github.com/rust-lang/cargo/pull/12"},
		},
	}}
}
