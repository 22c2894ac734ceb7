package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vitrinshop/vitrin/internal/bus"
	"github.com/vitrinshop/vitrin/internal/domain"
	"github.com/vitrinshop/vitrin/internal/storage"
	"github.com/vitrinshop/vitrin/internal/telemetry"
)

// WishlistService mutates the wishlist collection.
type WishlistService interface {
	// Items returns the current wishlist entries.
	Items(ctx context.Context) ([]domain.WishlistItem, error)

	// AddItem saves a product to the wishlist. Adding a product that is
	// already present is a no-op: no duplicate entry, no publish.
	AddItem(ctx context.Context, product domain.Product) error

	// RemoveItem removes a product from the wishlist. A missing product id
	// is a no-op that still publishes.
	RemoveItem(ctx context.Context, productID string) error
}

type wishlistService struct {
	store   *storage.Store
	bus     *bus.ChangeBus
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewWishlistService creates a WishlistService.
func NewWishlistService(store *storage.Store, changeBus *bus.ChangeBus, logger *slog.Logger, metrics *telemetry.Metrics) WishlistService {
	if logger == nil {
		logger = slog.Default()
	}
	return &wishlistService{store: store, bus: changeBus, logger: logger, metrics: metrics}
}

func (s *wishlistService) Items(ctx context.Context) ([]domain.WishlistItem, error) {
	return s.store.WishlistItems(ctx)
}

func (s *wishlistService) AddItem(ctx context.Context, product domain.Product) error {
	if product.ID == "" {
		return domain.Invalid("wishlist.add", "product id is required")
	}

	items, err := s.store.WishlistItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to read wishlist: %w", err)
	}

	for _, item := range items {
		if item.ProductID == product.ID {
			s.logger.Debug("product already wishlisted", "product_id", product.ID)
			return nil
		}
	}

	items = append(items, domain.WishlistItem{
		ProductID: product.ID,
		Name:      product.Name,
		Brand:     product.Brand,
		Image:     product.Image,
		Price:     product.EffectivePrice(),
		IsEco:     product.IsEco,
		AddedAt:   time.Now(),
	})

	if err := s.store.SetWishlistItems(ctx, items); err != nil {
		return err
	}
	s.publish("add")

	s.logger.Info("wishlist item added", "product_id", product.ID)
	return nil
}

func (s *wishlistService) RemoveItem(ctx context.Context, productID string) error {
	items, err := s.store.WishlistItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to read wishlist: %w", err)
	}

	remaining := make([]domain.WishlistItem, 0, len(items))
	for _, item := range items {
		if item.ProductID != productID {
			remaining = append(remaining, item)
		}
	}

	if len(remaining) == len(items) {
		s.logger.Debug("remove for missing wishlist item, publishing for reconciliation", "product_id", productID)
		s.publish("remove")
		return nil
	}

	if err := s.store.SetWishlistItems(ctx, remaining); err != nil {
		return err
	}
	s.publish("remove")
	return nil
}

func (s *wishlistService) publish(op string) {
	s.bus.Publish(domain.TopicFor(domain.CollectionWishlist))
	if s.metrics != nil {
		s.metrics.Mutations.WithLabelValues(domain.CollectionWishlist, op).Inc()
	}
}
