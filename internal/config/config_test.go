package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	twerrors "github.com/twirer/twirer/internal/errors"
	"github.com/twirer/twirer/internal/notify"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func load(t *testing.T, projectPath string) *Configuration {
	t.Helper()

	cfg, err := LoadWithOptions(LoadOptions{
		ProjectConfigPath: projectPath,
		UserConfigPath:    "-",
		SkipWarnings:      true,
	})
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg := load(t, filepath.Join(t.TempDir(), "missing"))

	assert.Equal(t, "rust-lang", cfg.Org)
	assert.Equal(t, "../this-week-in-rust", cfg.TwirDir)
	assert.Equal(t, "origin", cfg.Remote)
	assert.Equal(t, "cache", cfg.CacheDir)
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, "cache", cfg.Store.Path)
	assert.Equal(t, 100, cfg.Search.PerPage)
	assert.Equal(t, 500, cfg.MaxHistoryEntries)
	assert.Equal(t, notify.DefaultConfig(), cfg.Notify)
	assert.False(t, cfg.SQLite())
	assert.Nil(t, cfg.Aliases())
	assert.Equal(t, SourceDefault, cfg.Source("org"))
}

func TestLoad_Formats(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		name    string
		content string
	}{
		"flat key=value": {
			name: "config",
			content: "ignore=rollup, bump\n" +
				"order=rust, cargo\n" +
				"code_keywords=unsafe\n" +
				"editor=vim\n" +
				"browser=firefox\n",
		},
		"yaml": {
			name: "config.yml",
			content: "ignore: [rollup, bump]\n" +
				"order: [rust, cargo]\n" +
				"code_keywords: [unsafe]\n" +
				"editor: vim\n" +
				"browser: firefox\n",
		},
		"json": {
			name: "config.json",
			content: `{"ignore": ["rollup", "bump"], "order": ["rust", "cargo"],
				"code_keywords": ["unsafe"], "editor": "vim", "browser": "firefox"}`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := load(t, writeConfig(t, tt.name, tt.content))

			assert.Equal(t, []string{"rollup", "bump"}, cfg.Ignore)
			assert.Equal(t, []string{"rust", "cargo"}, cfg.Order)
			assert.Equal(t, []string{"unsafe"}, cfg.CodeKeywords)
			assert.Equal(t, "vim", cfg.Editor)
			assert.Equal(t, "firefox", cfg.Browser)
			assert.NoError(t, cfg.Require(KeyIgnore, KeyOrder, KeyCodeKeywords, KeyEditor, KeyBrowser))
			assert.Equal(t, SourceProject, cfg.Source(KeyIgnore))
		})
	}
}

func TestLoad_Notify(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		name    string
		content string
	}{
		"yaml": {
			name:    "config.yml",
			content: "notify:\n  enabled: true\n  long_running: 2m\n",
		},
		"flat key=value": {
			name:    "config",
			content: "notify.enabled=true\nnotify.long_running=2m\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := load(t, writeConfig(t, tt.name, tt.content))
			assert.True(t, cfg.Notify.Enabled)
			assert.Equal(t, 2*time.Minute, cfg.Notify.LongRunning)
		})
	}
}

func TestLoad_EmptyListIsPresent(t *testing.T) {
	t.Parallel()

	cfg := load(t, writeConfig(t, "config", "ignore=\norder=rust\ncode_keywords=\n"))

	assert.Empty(t, cfg.Ignore)
	assert.Empty(t, cfg.CodeKeywords)
	assert.NoError(t, cfg.Require(KeyIgnore, KeyOrder, KeyCodeKeywords))
}

func TestRequire_MissingKey(t *testing.T) {
	t.Parallel()

	cfg := load(t, writeConfig(t, "config", "ignore=rollup\n"))

	err := cfg.Require(KeyIgnore, KeyOrder, KeyCodeKeywords)
	require.Error(t, err)

	var missing *twerrors.ConfigKeyMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, KeyOrder, missing.Key)
	assert.Equal(t, twerrors.KindConfigKeyMissing, twerrors.KindOf(err))
}

func TestLoad_FirefoxFallback(t *testing.T) {
	t.Parallel()

	var warnings bytes.Buffer
	cfg, err := LoadWithOptions(LoadOptions{
		ProjectConfigPath: writeConfig(t, "config", "firefox=firefox-esr\n"),
		UserConfigPath:    "-",
		WarningWriter:     &warnings,
	})
	require.NoError(t, err)

	assert.Equal(t, "firefox-esr", cfg.Browser)
	assert.NoError(t, cfg.Require(KeyBrowser))
	assert.Contains(t, warnings.String(), "'firefox' is deprecated")
}

func TestLoad_UserThenProject(t *testing.T) {
	t.Parallel()

	userPath := writeConfig(t, "config.yml", "org: user-org\nfork: someone\n")
	projectPath := writeConfig(t, "config", "org=project-org\n")

	cfg, err := LoadWithOptions(LoadOptions{
		ProjectConfigPath: projectPath,
		UserConfigPath:    userPath,
		SkipWarnings:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, "project-org", cfg.Org)
	assert.Equal(t, "someone", cfg.Fork)
	assert.Equal(t, SourceProject, cfg.Source("org"))
	assert.Equal(t, SourceUser, cfg.Source("fork"))
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TWIRER_ORG", "env-org")
	t.Setenv("TWIRER_STORE__BACKEND", "sqlite")
	t.Setenv("TWIRER_CODE_KEYWORDS", "unsafe, async")

	cfg := load(t, writeConfig(t, "config", "org=project-org\ncache_dir=/tmp/twir\n"))

	assert.Equal(t, "env-org", cfg.Org)
	assert.Equal(t, SourceEnv, cfg.Source("org"))
	assert.True(t, cfg.SQLite())
	assert.Equal(t, filepath.Join("/tmp/twir", "records.db"), cfg.Store.Path)
	assert.Equal(t, []string{"unsafe", "async"}, cfg.CodeKeywords)
}

func TestLoad_Aliases(t *testing.T) {
	t.Parallel()

	cfg := load(t, writeConfig(t, "config", "repo_aliases=rust-clippy=clippy, docs.rs=docs.rs\n"))

	assert.Equal(t, map[string]string{"rust-clippy": "clippy", "docs.rs": "docs.rs"}, cfg.Aliases())
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		name    string
		content string
		want    string
	}{
		"unknown backend": {
			name:    "config.yml",
			content: "store:\n  backend: redis\n",
			want:    "must be one of: file, sqlite",
		},
		"page size": {
			name:    "config.yml",
			content: "search:\n  per_page: 500\n",
			want:    "must be at most 100",
		},
		"alias without separator": {
			name:    "config",
			content: "repo_aliases=clippy\n",
			want:    "must be repo=alias",
		},
		"negative duration": {
			name:    "config.yml",
			content: "notify:\n  long_running: -1s\n",
			want:    "long_running",
		},
		"yaml syntax": {
			name:    "config.yml",
			content: "org: [unclosed\n",
			want:    "validating YAML syntax",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadWithOptions(LoadOptions{
				ProjectConfigPath: writeConfig(t, tt.name, tt.content),
				UserConfigPath:    "-",
				SkipWarnings:      true,
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSortedKeys(t *testing.T) {
	t.Parallel()

	keys := SortedKeys()
	require.Len(t, keys, len(KnownKeys))
	assert.IsNonDecreasing(t, keys)

	schema, err := GetKeySchema("store.backend")
	require.NoError(t, err)
	assert.Equal(t, []string{"file", "sqlite"}, schema.AllowedValues)

	_, err = GetKeySchema("nope")
	assert.EqualError(t, err, "unknown configuration key: nope")
}

func TestGetDefaults_MatchRegistry(t *testing.T) {
	t.Parallel()

	for key, value := range GetDefaults() {
		schema, err := GetKeySchema(key)
		require.NoError(t, err, key)
		assert.Equal(t, schema.Default, value, key)
	}
}
