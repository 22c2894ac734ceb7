package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend keeps each collection in its own JSON file under a data
// directory. This is the default backend for development.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a file backend rooted at dir, creating the
// directory if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

// Read returns the contents of the collection file.
func (b *FileBackend) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read collection file: %w", err)
	}

	return data, nil
}

// Write replaces the collection file atomically: the blob goes to a temp
// file in the same directory first, then renames over the target, so a
// concurrent Read never sees a half-written file.
func (b *FileBackend) Write(ctx context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(b.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), b.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace collection file: %w", err)
	}

	return nil
}

// Close is a no-op for the file backend.
func (b *FileBackend) Close() error {
	return nil
}
