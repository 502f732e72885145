// Package history keeps a log of twirer invocations in the state
// directory: when each command ran, for which week, how it exited and how
// long it took.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// HistoryFileName is the name of the history file inside the state directory.
const HistoryFileName = "history.yaml"

// HistoryEntry records one command execution.
type HistoryEntry struct {
	Timestamp time.Time `yaml:"timestamp"`
	Command   string    `yaml:"command"`
	// Week is the search window the command worked on, empty when the
	// command does not depend on it.
	Week     string `yaml:"week,omitempty"`
	ExitCode int    `yaml:"exit_code"`
	Duration string `yaml:"duration"`
}

// HistoryFile is the on-disk layout of the history.
type HistoryFile struct {
	Entries []HistoryEntry `yaml:"entries"`
}

// Path returns the history file path for stateDir.
func Path(stateDir string) string {
	return filepath.Join(stateDir, HistoryFileName)
}

// LoadHistory reads the history of stateDir. A missing file is an empty
// history.
func LoadHistory(stateDir string) (*HistoryFile, error) {
	data, err := os.ReadFile(Path(stateDir))
	if errors.Is(err, os.ErrNotExist) {
		return &HistoryFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	var history HistoryFile
	if err := yaml.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parsing history file: %w", err)
	}
	return &history, nil
}

// SaveHistory writes history atomically, creating stateDir if needed.
func SaveHistory(stateDir string, history *HistoryFile) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}

	tmp, err := os.CreateTemp(stateDir, HistoryFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp history file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing history file: %w", err)
	}
	if err := os.Rename(tmp.Name(), Path(stateDir)); err != nil {
		return fmt.Errorf("replacing history file: %w", err)
	}
	return nil
}

// ClearHistory removes every entry.
func ClearHistory(stateDir string) error {
	err := os.Remove(Path(stateDir))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing history file: %w", err)
	}
	return nil
}

// Filter returns the entries of week (all when week is empty), keeping at
// most limit of the most recent ones when limit is positive.
func Filter(entries []HistoryEntry, week string, limit int) []HistoryEntry {
	var result []HistoryEntry
	for _, entry := range entries {
		if week == "" || entry.Week == week {
			result = append(result, entry)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result
}
