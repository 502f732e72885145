package health

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twirer/twirer/internal/search"
	"github.com/twirer/twirer/internal/store"
)

func newCheckout(t *testing.T, draftContents string) string {
	t.Helper()

	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	if draftContents != "" {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "draft"), 0o755))
		path := filepath.Join(dir, "draft", "2024-01-10-this-week-in-rust.md")
		require.NoError(t, os.WriteFile(path, []byte(draftContents), 0o644))
	}
	return dir
}

func TestCheckCheckout(t *testing.T) {
	t.Parallel()

	assert.True(t, CheckCheckout(newCheckout(t, "")).Passed)

	result := CheckCheckout(t.TempDir())
	assert.False(t, result.Passed)
	assert.Contains(t, result.Message, "not a git repository")
}

func TestCheckDraft(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		contents   string
		wantPassed bool
		wantMsg    string
	}{
		"fresh": {
			contents:   "Number: 530\n<!-- COTW goes here -->\n<!-- QOTW goes here -->\n<!-- Rust updates go here -->\n",
			wantPassed: true,
			wantMsg:    "issue 530, ready to fill in",
		},
		"filled": {
			contents:   "Number: 530\n## Crate of the Week\n",
			wantPassed: true,
			wantMsg:    "issue 530, already filled in",
		},
		"no number": {
			contents: "Title: This Week in Rust\n",
			wantMsg:  "number not found",
		},
		"no draft": {
			wantMsg: "reading draft directory",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			result := CheckDraft(newCheckout(t, tt.contents))
			assert.Equal(t, tt.wantPassed, result.Passed)
			assert.Contains(t, result.Message, tt.wantMsg)
		})
	}
}

func TestCheckToken(t *testing.T) {
	t.Setenv(search.TokenEnv, "")
	assert.False(t, CheckToken().Passed)

	t.Setenv(search.TokenEnv, "secret")
	result := CheckToken()
	assert.True(t, result.Passed)
	assert.NotContains(t, result.Message, "secret")
}

func TestCheckProgram(t *testing.T) {
	t.Parallel()

	assert.False(t, CheckProgram("Editor", nil).Passed)
	assert.False(t, CheckProgram("Editor", []string{"definitely-not-a-real-editor-x"}).Passed)
	assert.True(t, CheckProgram("Editor", []string{"sh", "-c"}).Passed)
}

func TestCheckWeek(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.False(t, CheckWeek(ctx, nil).Passed)
	assert.Contains(t, CheckWeek(ctx, st).Message, "not set")

	require.NoError(t, store.SaveText(ctx, st, store.WeekSpec, "garbage"))
	assert.False(t, CheckWeek(ctx, st).Passed)

	require.NoError(t, store.SaveText(ctx, st, store.WeekSpec, "2024-01-02..2024-01-09"))
	result := CheckWeek(ctx, st)
	assert.True(t, result.Passed)
	assert.Equal(t, "2024-01-02..2024-01-09", result.Message)
}

func TestRunHealthChecks(t *testing.T) {
	t.Setenv(search.TokenEnv, "secret")

	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	dir := newCheckout(t, "Number: 1\n")

	report := RunHealthChecks(context.Background(), Inputs{TwirDir: dir, Editor: []string{"sh"}, Store: st})
	require.Len(t, report.Checks, 6)
	assert.False(t, report.Passed)

	names := make([]string, 0, len(report.Checks))
	for _, c := range report.Checks {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Newsletter checkout", "Draft", "GitHub token", "Editor", "Browser", "Week window"}, names)
}

func TestFormatReport(t *testing.T) {
	t.Parallel()

	report := &HealthReport{Checks: []CheckResult{
		{Name: "Draft", Passed: true, Message: "issue 530, ready to fill in"},
		{Name: "Browser", Message: "not configured"},
	}}
	assert.Equal(t, "✓ Draft: issue 530, ready to fill in\n✗ Browser: not configured\n", FormatReport(report))
}
