package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/twirer/twirer/internal/config"
	"github.com/twirer/twirer/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage twirer configuration",
	Long: `Manage twirer configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (TWIRER_*, "__" for nested keys)
  2. Project config (--config, default cache/config)
  3. User config (~/.config/twirer/config.yml)
  4. Built-in defaults`,
	Example: `  # Show current configuration
  twirer config show

  # List the recognized keys
  twirer config keys

  # Write a commented user config
  twirer config init`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration and where each value came from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		asJSON, _ := cmd.Flags().GetBool("json")
		return runConfigShow(a.out, a.cfg, asJSON)
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the recognized configuration keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printConfigKeys(cmd.OutOrStdout())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented configuration template",
	Long: `Write a commented YAML configuration template to the user config file,
or to --path. An existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		force, _ := cmd.Flags().GetBool("force")
		if path == "" {
			var err error
			if path, err = config.UserConfigPath(); err != nil {
				return fmt.Errorf("locating user config: %w", err)
			}
		}
		return runConfigInit(cmd.OutOrStdout(), path, force)
	},
}

func init() {
	configCmd.GroupID = GroupConfiguration
	configShowCmd.Flags().Bool("json", false, "Output in JSON format")
	configInitCmd.Flags().String("path", "", "Write the template here instead of the user config")
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
	configCmd.AddCommand(configShowCmd, configKeysCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(out io.Writer, cfg *config.Configuration, asJSON bool) error {
	values := configValues(cfg)

	if asJSON {
		data, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	output.PrintSeparator(out, "Configuration Sources")
	dim := color.New(color.Faint).SprintFunc()
	for _, key := range cfg.SourceKeys() {
		fmt.Fprintf(out, "  %-22s %s\n", key, dim(cfg.Source(key)))
	}
	fmt.Fprintln(out)

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(out, string(data))
	return nil
}

// configValues maps the recognized keys to their effective values.
func configValues(cfg *config.Configuration) map[string]any {
	return map[string]any{
		config.KeyIgnore:       cfg.Ignore,
		config.KeyOrder:        cfg.Order,
		config.KeyCodeKeywords: cfg.CodeKeywords,
		config.KeyEditor:       cfg.Editor,
		config.KeyBrowser:      cfg.Browser,
		"org":                  cfg.Org,
		"twir_dir":             cfg.TwirDir,
		"remote":               cfg.Remote,
		"fork":                 cfg.Fork,
		"cache_dir":            cfg.CacheDir,
		"store": map[string]any{
			"backend": cfg.Store.Backend,
			"path":    cfg.Store.Path,
		},
		"search": map[string]any{
			"per_page": cfg.Search.PerPage,
			"base_url": cfg.Search.BaseURL,
		},
		"repo_aliases":        cfg.RepoAliases,
		"state_dir":           cfg.StateDir,
		"max_history_entries": cfg.MaxHistoryEntries,
		"notify": map[string]any{
			"enabled":      cfg.Notify.Enabled,
			"long_running": cfg.Notify.LongRunning.String(),
		},
	}
}

func printConfigKeys(out io.Writer) {
	yellow := color.New(color.FgYellow).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	for _, key := range config.SortedKeys() {
		schema := config.KnownKeys[key]
		typ := schema.Type.String()
		if len(schema.AllowedValues) > 0 {
			typ = strings.Join(schema.AllowedValues, "|")
		}
		def := "-"
		if schema.Default != nil {
			def = fmt.Sprint(schema.Default)
		}
		fmt.Fprintf(out, "%-22s %-12s %s %s\n", yellow(key), typ, schema.Description, dim("(default: "+def+")"))
	}
}

func runConfigInit(out io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(out, "%s already exists (use --force to overwrite)\n", path)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	output.PrintSuccess(out, "wrote "+path)
	return nil
}
