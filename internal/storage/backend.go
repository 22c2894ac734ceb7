package storage

import (
	"context"

	"github.com/vitrinshop/vitrin/internal"
)

// Backend is the raw key/value layer under the store: one opaque JSON blob
// per collection key. Implementations must make Write atomic from a reader's
// point of view: a concurrent Read sees either the previous or the new
// value, never a partial write.
type Backend interface {
	// Read returns the stored blob for key, or ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write overwrites the blob for key.
	Write(ctx context.Context, key string, data []byte) error

	// Close releases backend resources.
	Close() error
}

// NewBackend creates a Backend from configuration.
func NewBackend(cfg internal.StorageConfig) (Backend, error) {
	switch cfg.Provider {
	case "file", "":
		return NewFileBackend(cfg.Path)
	case "sqlite":
		return NewSQLiteBackend(cfg.Path)
	case "memory":
		return NewMemoryBackend(), nil
	default:
		return nil, ErrUnknownProvider(cfg.Provider)
	}
}
