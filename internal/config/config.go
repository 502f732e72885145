// Package config provides layered configuration for twirer using koanf.
// Configuration is loaded with priority: environment variables (TWIRER_*) >
// project config (cache/config by default) > user config
// (~/.config/twirer/config.yml) > defaults. The project config may be YAML,
// JSON or the flat key=value format, picked by file extension.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	twerrors "github.com/twirer/twirer/internal/errors"
	"github.com/twirer/twirer/internal/notify"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: TWIRER_STORE__BACKEND sets store.backend.
const EnvPrefix = "TWIRER_"

// ListSeparator separates the items of list values in flat config files
// and environment variables.
const ListSeparator = ", "

// Keys the filter needs. They have no defaults.
const (
	KeyIgnore       = "ignore"
	KeyOrder        = "order"
	KeyCodeKeywords = "code_keywords"
	KeyEditor       = "editor"
	KeyBrowser      = "browser"
)

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Backend string `koanf:"backend" validate:"oneof=file sqlite"`
	// Path is the database file for the sqlite backend. Empty means
	// records.db inside the cache directory.
	Path string `koanf:"path"`
}

// SearchConfig tunes the GitHub search client.
type SearchConfig struct {
	PerPage int    `koanf:"per_page" validate:"min=1,max=100"`
	BaseURL string `koanf:"base_url" validate:"omitempty,url"`
}

// Configuration represents the twirer configuration.
type Configuration struct {
	Ignore       []string `koanf:"ignore"`
	Order        []string `koanf:"order"`
	CodeKeywords []string `koanf:"code_keywords"`

	Editor  string `koanf:"editor"`
	Browser string `koanf:"browser"`
	// Firefox is the browser key of older flat config files.
	Firefox string `koanf:"firefox"`

	Org      string `koanf:"org" validate:"required"`
	TwirDir  string `koanf:"twir_dir" validate:"required"`
	Remote   string `koanf:"remote" validate:"required"`
	Fork     string `koanf:"fork"`
	CacheDir string `koanf:"cache_dir" validate:"required"`

	Store  StoreConfig  `koanf:"store"`
	Search SearchConfig `koanf:"search"`

	// RepoAliases holds repo=alias pairs. Repository names may contain
	// dots, so they cannot be config keys.
	RepoAliases []string `koanf:"repo_aliases"`

	StateDir          string `koanf:"state_dir"`
	MaxHistoryEntries int    `koanf:"max_history_entries" validate:"min=0"`

	Notify notify.Config `koanf:"notify"`

	sources map[string]ConfigSource
	present map[string]bool
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: cache/config)
	ProjectConfigPath string
	// UserConfigPath overrides the user config path. "-" skips the user config.
	UserConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	sources := make(map[string]ConfigSource)

	loadDefaults(k)
	for key := range k.All() {
		sources[key] = SourceDefault
	}

	userPath := opts.UserConfigPath
	if userPath == "" {
		userPath, _ = UserConfigPath()
	}
	if userPath != "-" && fileExists(userPath) {
		err := trackLayer(k, sources, SourceUser, func() error { return loadFile(k, userPath) })
		if err != nil {
			return nil, fmt.Errorf("loading user config: %w", err)
		}
	}

	projectPath := opts.ProjectConfigPath
	if projectPath == "" {
		projectPath = DefaultProjectConfigPath
	}
	if fileExists(projectPath) {
		err := trackLayer(k, sources, SourceProject, func() error { return loadFile(k, projectPath) })
		if err != nil {
			return nil, fmt.Errorf("loading project config: %w", err)
		}
	}

	if err := trackLayer(k, sources, SourceEnv, func() error { return loadEnvironmentConfig(k) }); err != nil {
		return nil, err
	}

	cfg, err := finalizeConfig(k, projectPath)
	if err != nil {
		return nil, err
	}
	cfg.sources = sources

	if !opts.SkipWarnings {
		emitLegacyWarnings(cfg, getWarningWriter(opts.WarningWriter))
	}
	return cfg, nil
}

// trackLayer runs load and attributes every key it added or changed to src.
func trackLayer(k *koanf.Koanf, sources map[string]ConfigSource, src ConfigSource, load func() error) error {
	before := k.All()
	if err := load(); err != nil {
		return err
	}
	for key, value := range k.All() {
		if old, ok := before[key]; !ok || !reflect.DeepEqual(old, value) {
			sources[key] = src
		}
	}
	return nil
}

func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadFile picks the parser from the extension: YAML for .yml/.yaml, JSON
// for .json and the flat key=value format otherwise.
func loadFile(k *koanf.Koanf, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := ValidateYAMLSyntax(path); err != nil {
			return fmt.Errorf("validating YAML syntax: %w", err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to load config %s: %w", path, err)
		}
	case ".json":
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load config %s: %w", path, err)
		}
	default:
		parser := dotenv.ParserEnv("", ".", func(s string) string { return strings.TrimSpace(s) })
		if err := k.Load(file.Provider(path), parser); err != nil {
			return fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}
	return nil
}

func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// envTransform converts environment variable names to config keys.
// Example: TWIRER_CODE_KEYWORDS -> code_keywords, TWIRER_STORE__PATH -> store.path
func envTransform(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func finalizeConfig(k *koanf.Koanf, path string) (*Configuration, error) {
	var cfg Configuration
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(ListSeparator),
				mapstructure.StringToTimeDurationHookFunc(),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, path); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.Ignore = trimAll(cfg.Ignore)
	cfg.Order = trimAll(cfg.Order)
	cfg.CodeKeywords = trimAll(cfg.CodeKeywords)
	cfg.StateDir = expandHomePath(cfg.StateDir)
	cfg.TwirDir = expandHomePath(cfg.TwirDir)
	if cfg.Browser == "" {
		cfg.Browser = cfg.Firefox
	}
	if cfg.Store.Path == "" && cfg.Store.Backend == "sqlite" {
		cfg.Store.Path = filepath.Join(cfg.CacheDir, "records.db")
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = cfg.CacheDir
	}

	present := make(map[string]bool)
	for _, key := range []string{KeyIgnore, KeyOrder, KeyCodeKeywords, KeyEditor, KeyBrowser, "firefox"} {
		present[key] = k.Exists(key)
	}
	if present["firefox"] {
		present[KeyBrowser] = true
	}
	cfg.present = present
	return &cfg, nil
}

func emitLegacyWarnings(cfg *Configuration, w io.Writer) {
	if cfg.Firefox != "" && cfg.Browser == cfg.Firefox {
		fmt.Fprintf(w, "Warning: 'firefox' is deprecated. Use 'browser' instead.\n")
		fmt.Fprintf(w, "  Replace: firefox=%s\n", cfg.Firefox)
		fmt.Fprintf(w, "  With:    browser=%s\n\n", cfg.Firefox)
	}
}

// Require returns a ConfigKeyMissingError for the first key that no
// config source set.
func (c *Configuration) Require(keys ...string) error {
	for _, key := range keys {
		if !c.present[key] {
			return &twerrors.ConfigKeyMissingError{Key: key}
		}
	}
	return nil
}

// Source reports where key got its value.
func (c *Configuration) Source(key string) ConfigSource {
	if src, ok := c.sources[key]; ok {
		return src
	}
	return SourceDefault
}

// SourceKeys returns the keys with a recorded source, sorted.
func (c *Configuration) SourceKeys() []string {
	keys := make([]string, 0, len(c.sources))
	for key := range c.sources {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Aliases returns RepoAliases as a map, or nil when none are configured.
func (c *Configuration) Aliases() map[string]string {
	if len(c.RepoAliases) == 0 {
		return nil
	}
	aliases := make(map[string]string, len(c.RepoAliases))
	for _, pair := range c.RepoAliases {
		repo, alias, _ := strings.Cut(pair, "=")
		aliases[strings.TrimSpace(repo)] = strings.TrimSpace(alias)
	}
	return aliases
}

// SQLite reports whether the sqlite record store is selected.
func (c *Configuration) SQLite() bool {
	return c.Store.Backend == "sqlite"
}

func trimAll(items []string) []string {
	out := items[:0]
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
