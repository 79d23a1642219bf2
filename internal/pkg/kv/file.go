package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore implements Store on the local file system, one JSON file per table.
type FileStore struct {
	basePath string
	prefix   string
}

// NewFileStore creates a new file-backed store rooted at basePath
func NewFileStore(basePath, prefix string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &FileStore{
		basePath: basePath,
		prefix:   prefix,
	}, nil
}

func (s *FileStore) path(table string) string {
	return filepath.Join(s.basePath, s.prefix+table+".json")
}

// Read returns the table contents
func (s *FileStore) Read(_ context.Context, table string) ([]byte, error) {
	data, err := os.ReadFile(s.path(table))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Write replaces the table file atomically via a temp file and rename
func (s *FileStore) Write(_ context.Context, table string, data []byte) error {
	target := s.path(table)

	tmp, err := os.CreateTemp(s.basePath, filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName) // Cleanup on error
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}
