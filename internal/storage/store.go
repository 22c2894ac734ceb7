package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/vitrinshop/vitrin/internal/domain"
	"github.com/vitrinshop/vitrin/internal/telemetry"
)

// Store is the persistent collection store: one JSON-encoded array of
// records per named collection. Reads fail soft (missing or malformed data
// comes back as an empty collection, logged but never surfaced) and every
// write replaces the whole collection. Access is serialized; writers and
// readers in other goroutines always see complete collections.
type Store struct {
	backend Backend
	logger  *slog.Logger
	metrics *telemetry.Metrics

	mu sync.Mutex
	// revisions maps collection -> xxhash of the last payload written this
	// process. Debugging aid for correlating log lines with store states.
	revisions map[string]uint64
}

// New creates a store over a backend. logger and metrics may be nil.
func New(backend Backend, logger *slog.Logger, metrics *telemetry.Metrics) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		backend:   backend,
		logger:    logger,
		metrics:   metrics,
		revisions: make(map[string]uint64),
	}
}

// Get decodes a collection into dest, which must be a pointer to a slice.
// Missing and malformed data both yield an empty slice and a nil error; a
// parse failure is logged and counted, never propagated.
func (s *Store) Get(ctx context.Context, collection string, dest any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(ctx, collection, dest)
}

func (s *Store) getLocked(ctx context.Context, collection string, dest any) error {
	if s.metrics != nil {
		s.metrics.StoreReads.WithLabelValues(collection).Inc()
	}

	data, err := s.backend.Read(ctx, collection)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			// Backend I/O failures degrade to an empty collection too;
			// nothing in this layer is allowed to be fatal.
			s.logger.Error("collection read failed, treating as empty",
				"collection", collection,
				"error", err,
			)
		}
		zeroSlice(dest)
		return nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		if s.metrics != nil {
			s.metrics.StoreCorruptions.WithLabelValues(collection).Inc()
		}
		s.logger.Warn("collection data is corrupt, treating as empty",
			"collection", collection,
			"error", err,
		)
		zeroSlice(dest)
		return nil
	}

	return nil
}

// Set serializes v and overwrites the collection. The write is atomic from
// any other reader's point of view.
func (s *Store) Set(ctx context.Context, collection string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(ctx, collection, v)
}

func (s *Store) setLocked(ctx context.Context, collection string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize collection %s: %w", collection, err)
	}
	if string(data) == "null" {
		// A nil slice still persists as an empty collection.
		data = []byte("[]")
	}

	if err := s.backend.Write(ctx, collection, data); err != nil {
		return fmt.Errorf("failed to write collection %s: %w", collection, err)
	}

	rev := xxhash.Sum64(data)
	s.revisions[collection] = rev
	if s.metrics != nil {
		s.metrics.StoreWrites.WithLabelValues(collection).Inc()
	}
	s.logger.Debug("collection written",
		"collection", collection,
		"bytes", len(data),
		"revision", fmt.Sprintf("%016x", rev),
	)

	return nil
}

// Revision returns the content hash of the last payload written to the
// collection during this process, or 0 if it hasn't been written yet.
func (s *Store) Revision(collection string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revisions[collection]
}

// InitializeDefaults seeds a collection with its default dataset if it is
// empty, and returns the number of records now present. Idempotent: a
// non-empty collection is left untouched, so redundant calls from multiple
// readers produce exactly one write.
func (s *Store) InitializeDefaults(ctx context.Context, collection string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing []json.RawMessage
	if err := s.getLocked(ctx, collection, &existing); err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return len(existing), nil
	}

	seed, count := defaultDataset(collection)
	if err := s.setLocked(ctx, collection, seed); err != nil {
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.StoreSeeded.WithLabelValues(collection).Inc()
	}
	s.logger.Info("seeded collection with defaults",
		"collection", collection,
		"records", count,
	)

	return count, nil
}

// InitializeAll seeds every known collection.
func (s *Store) InitializeAll(ctx context.Context) error {
	for _, collection := range []string{
		domain.CollectionProducts,
		domain.CollectionCart,
		domain.CollectionWishlist,
		domain.CollectionOrders,
		domain.CollectionAddresses,
	} {
		if _, err := s.InitializeDefaults(ctx, collection); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// zeroSlice resets dest (a pointer to a slice) to its empty value, erasing
// anything a failed partial decode may have left behind.
func zeroSlice(dest any) {
	v := reflect.ValueOf(dest)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		v.Elem().Set(reflect.Zero(v.Elem().Type()))
	}
}

// =============================================================================
// Typed accessors. Reads normalize at this boundary so callers only ever see
// canonical records.
// =============================================================================

// Products returns the products collection, normalized.
func (s *Store) Products(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := s.Get(ctx, domain.CollectionProducts, &products); err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Normalize()
	}
	return products, nil
}

// SetProducts overwrites the products collection.
func (s *Store) SetProducts(ctx context.Context, products []domain.Product) error {
	return s.Set(ctx, domain.CollectionProducts, products)
}

// CartItems returns the cart collection.
func (s *Store) CartItems(ctx context.Context) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if err := s.Get(ctx, domain.CollectionCart, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetCartItems overwrites the cart collection.
func (s *Store) SetCartItems(ctx context.Context, items []domain.CartItem) error {
	return s.Set(ctx, domain.CollectionCart, items)
}

// WishlistItems returns the wishlist collection.
func (s *Store) WishlistItems(ctx context.Context) ([]domain.WishlistItem, error) {
	var items []domain.WishlistItem
	if err := s.Get(ctx, domain.CollectionWishlist, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetWishlistItems overwrites the wishlist collection.
func (s *Store) SetWishlistItems(ctx context.Context, items []domain.WishlistItem) error {
	return s.Set(ctx, domain.CollectionWishlist, items)
}

// Orders returns the orders collection.
func (s *Store) Orders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := s.Get(ctx, domain.CollectionOrders, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SetOrders overwrites the orders collection.
func (s *Store) SetOrders(ctx context.Context, orders []domain.Order) error {
	return s.Set(ctx, domain.CollectionOrders, orders)
}

// Addresses returns the addresses collection.
func (s *Store) Addresses(ctx context.Context) ([]domain.Address, error) {
	var addresses []domain.Address
	if err := s.Get(ctx, domain.CollectionAddresses, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// SetAddresses overwrites the addresses collection.
func (s *Store) SetAddresses(ctx context.Context, addresses []domain.Address) error {
	return s.Set(ctx, domain.CollectionAddresses, addresses)
}

// Categories returns the category hierarchy. Static reference data; the
// core never writes it.
func (s *Store) Categories() []domain.CategoryNode {
	return domain.DefaultCategories()
}
