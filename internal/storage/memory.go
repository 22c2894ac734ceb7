package storage

import (
	"context"
	"sync"
)

// MemoryBackend keeps collections in a map. Used by tests and throwaway
// sessions; nothing survives the process.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

// Read returns the stored blob for key.
func (b *MemoryBackend) Read(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.data[key]
	if !ok {
		return nil, ErrNotFound
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Write overwrites the blob for key.
func (b *MemoryBackend) Write(ctx context.Context, key string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	b.mu.Lock()
	b.data[key] = stored
	b.mu.Unlock()
	return nil
}

// Close is a no-op for the memory backend.
func (b *MemoryBackend) Close() error {
	return nil
}

// Corrupt overwrites a key with bytes that are not valid JSON. Test helper
// for exercising corrupt-storage recovery.
func (b *MemoryBackend) Corrupt(key string) {
	b.mu.Lock()
	b.data[key] = []byte("{not json")
	b.mu.Unlock()
}
