package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# Twirer Configuration
# See 'twirer config keys' for all options

# Filter settings (required by 'filter' and 'start')
ignore: []                            # Case-insensitive substrings that drop an entry
order: []                             # Repository priority, e.g. [rust, cargo, rust-clippy]
code_keywords: []                     # Words always formatted as code

# Launcher settings
editor: ""                            # Program opening the draft, e.g. vim
browser: ""                           # Program opening tabs, e.g. firefox

# Newsletter repository
org: rust-lang                        # Organization whose merged PRs are collected
twir_dir: ../this-week-in-rust        # Checkout of the newsletter repository
remote: origin                        # Remote pulled before starting
fork: ""                              # Remote (and GitHub user) receiving the submission branch

# Record store
cache_dir: cache                      # Directory holding the records
store:
  backend: file                       # file | sqlite
  path: ""                            # sqlite database (default: cache_dir/records.db)

# GitHub search
search:
  per_page: 100                       # Results per page (1-100)
  base_url: ""                        # GitHub Enterprise API URL

# Title prefixes per repository, e.g. ["rust-clippy=clippy"]
repo_aliases: []

# History settings
state_dir: ~/.twirer/state            # Directory for state files
max_history_entries: 500              # Max command history entries to retain

# Desktop notifications (notify-send on Linux, osascript on macOS)
notify:
  enabled: false                      # Opt in to notifications
  long_running: 30s                   # Notify commands running at least this long
`
}

// GetDefaults returns the default configuration values. The filter lists
// and the launcher programs have no defaults: commands needing them fail
// with a missing key error instead.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"org":                 "rust-lang",
		"twir_dir":            "../this-week-in-rust",
		"remote":              "origin",
		"fork":                "",
		"cache_dir":           "cache",
		"store.backend":       "file",
		"store.path":          "",
		"search.per_page":     100,
		"search.base_url":     "",
		"state_dir":           "~/.twirer/state",
		"max_history_entries": 500,
		"notify.enabled":      false,
		"notify.long_running": "30s",
	}
}
