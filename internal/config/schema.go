package config

import "sort"

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeInt ConfigValueType = iota
	TypeString
	TypeEnum
	TypeList
	TypeBool
	TypeDuration
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	case TypeList:
		return "list"
	case TypeBool:
		return "bool"
	case TypeDuration:
		return "duration"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Dotted key path (e.g., "store.backend")
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
	Default       interface{}     // Default value, nil when the key has none
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	KeyIgnore: {
		Path:        KeyIgnore,
		Type:        TypeList,
		Description: "Case-insensitive substrings that drop an entry",
	},
	KeyOrder: {
		Path:        KeyOrder,
		Type:        TypeList,
		Description: "Repository priority used to sort entries",
	},
	KeyCodeKeywords: {
		Path:        KeyCodeKeywords,
		Type:        TypeList,
		Description: "Words always formatted as code",
	},
	KeyEditor: {
		Path:        KeyEditor,
		Type:        TypeString,
		Description: "Program opening the draft",
	},
	KeyBrowser: {
		Path:        KeyBrowser,
		Type:        TypeString,
		Description: "Program opening the search and pull request tabs",
	},
	"org": {
		Path:        "org",
		Type:        TypeString,
		Description: "Organization whose merged pull requests are collected",
		Default:     "rust-lang",
	},
	"twir_dir": {
		Path:        "twir_dir",
		Type:        TypeString,
		Description: "Checkout of the newsletter repository",
		Default:     "../this-week-in-rust",
	},
	"remote": {
		Path:        "remote",
		Type:        TypeString,
		Description: "Remote pulled before starting",
		Default:     "origin",
	},
	"fork": {
		Path:        "fork",
		Type:        TypeString,
		Description: "Remote and GitHub user receiving the submission branch",
		Default:     "",
	},
	"cache_dir": {
		Path:        "cache_dir",
		Type:        TypeString,
		Description: "Directory holding the records",
		Default:     "cache",
	},
	"store.backend": {
		Path:          "store.backend",
		Type:          TypeEnum,
		AllowedValues: []string{"file", "sqlite"},
		Description:   "Record store backend",
		Default:       "file",
	},
	"store.path": {
		Path:        "store.path",
		Type:        TypeString,
		Description: "SQLite database path (default: cache_dir/records.db)",
		Default:     "",
	},
	"search.per_page": {
		Path:        "search.per_page",
		Type:        TypeInt,
		Description: "GitHub search results per page (1-100)",
		Default:     100,
	},
	"search.base_url": {
		Path:        "search.base_url",
		Type:        TypeString,
		Description: "GitHub Enterprise API URL",
		Default:     "",
	},
	"repo_aliases": {
		Path:        "repo_aliases",
		Type:        TypeList,
		Description: "repo=alias title prefixes",
	},
	"state_dir": {
		Path:        "state_dir",
		Type:        TypeString,
		Description: "Directory for state files",
		Default:     "~/.twirer/state",
	},
	"max_history_entries": {
		Path:        "max_history_entries",
		Type:        TypeInt,
		Description: "Max command history entries to retain",
		Default:     500,
	},
	"notify.enabled": {
		Path:        "notify.enabled",
		Type:        TypeBool,
		Description: "Send desktop notifications",
		Default:     false,
	},
	"notify.long_running": {
		Path:        "notify.long_running",
		Type:        TypeDuration,
		Description: "Minimum command duration that is notified",
		Default:     "30s",
	},
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// SortedKeys returns the registry keys in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for key := range KnownKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
