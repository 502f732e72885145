package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps each record in its own file under a cache directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the cache directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the cache directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// Load reads a record.
func (s *FileStore) Load(_ context.Context, name string) ([]string, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading record %s: %w", name, err)
	}
	return splitLines(string(data)), nil
}

// Save writes a record atomically via a temp file and rename.
func (s *FileStore) Save(_ context.Context, name string, lines []string) error {
	tmp := s.path(name) + ".tmp"
	if err := os.WriteFile(tmp, []byte(joinLines(lines)), 0o644); err != nil {
		return fmt.Errorf("writing record %s: %w", name, err)
	}
	if err := os.Rename(tmp, s.path(name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing record %s: %w", name, err)
	}
	return nil
}

// Rename moves a record file.
func (s *FileStore) Rename(_ context.Context, from, to string) error {
	err := os.Rename(s.path(from), s.path(to))
	if errors.Is(err, os.ErrNotExist) {
		return notFound(from)
	}
	if err != nil {
		return fmt.Errorf("renaming record %s to %s: %w", from, to, err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}
