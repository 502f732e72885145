// Package store persists the named line records a digest run passes
// between commands: the raw and filtered entries, the previous run's
// entries, the merged count and the week window.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Record names.
const (
	PRs         = "prs"
	LastPRs     = "last_prs"
	FilteredPRs = "filteredprs"
	NumPRs      = "num_prs"
	WeekSpec    = "week_spec"
)

// Backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrNotFound is returned when a record was never saved.
var ErrNotFound = errors.New("record not found")

// Store loads and saves records. A record is an ordered list of lines.
type Store interface {
	Load(ctx context.Context, name string) ([]string, error)
	Save(ctx context.Context, name string, lines []string) error
	// Rename moves a record, replacing any record already saved as to.
	Rename(ctx context.Context, from, to string) error
	Close() error
}

// Open returns the store for backend. path is the cache directory for the
// file backend and the database file for the sqlite backend.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(path)
	case BackendSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q (must be %s or %s)", backend, BackendFile, BackendSQLite)
	}
}

// LoadText loads a single-line record with surrounding whitespace removed.
func LoadText(ctx context.Context, s Store, name string) (string, error) {
	lines, err := s.Load(ctx, name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// SaveText saves a single-line record.
func SaveText(ctx context.Context, s Store, name, text string) error {
	return s.Save(ctx, name, []string{text})
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
