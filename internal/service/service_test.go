package service_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/vitrinshop/vitrin/internal/bus"
	"github.com/vitrinshop/vitrin/internal/storage"
)

// newFixture wires a memory-backed store and a live bus the way the
// application does, minus metrics.
func newFixture(t *testing.T) (*storage.Store, *bus.ChangeBus) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storage.New(storage.NewMemoryBackend(), logger, nil)
	return store, bus.New(logger, nil)
}

// countEvents subscribes a counter to one topic for the duration of a test.
func countEvents(t *testing.T, b *bus.ChangeBus, topic string) *int {
	t.Helper()
	count := new(int)
	unsubscribe := b.Subscribe(topic, func() { *count++ })
	t.Cleanup(unsubscribe)
	return count
}
