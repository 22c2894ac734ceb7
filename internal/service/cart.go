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

// CartService provides business logic for shopping cart operations.
type CartService interface {
	// Items returns the current cart lines.
	Items(ctx context.Context) ([]domain.CartItem, error)

	// AddItem adds a product to the cart in the given size. Adding a
	// (product, size) pair that already has a line increments that line's
	// quantity instead of inserting a second one.
	AddItem(ctx context.Context, product domain.Product, size string, quantity int) error

	// UpdateItemQuantity sets a line's quantity. Quantity 0 removes the
	// line. A missing id is a no-op that still publishes.
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error

	// RemoveItem removes a line by id. A missing id is a no-op that still
	// publishes.
	RemoveItem(ctx context.Context, itemID int64) error

	// Clear removes all lines.
	Clear(ctx context.Context) error
}

type cartService struct {
	store   *storage.Store
	bus     *bus.ChangeBus
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewCartService creates a CartService.
func NewCartService(store *storage.Store, changeBus *bus.ChangeBus, logger *slog.Logger, metrics *telemetry.Metrics) CartService {
	if logger == nil {
		logger = slog.Default()
	}
	return &cartService{store: store, bus: changeBus, logger: logger, metrics: metrics}
}

func (s *cartService) Items(ctx context.Context) ([]domain.CartItem, error) {
	return s.store.CartItems(ctx)
}

func (s *cartService) AddItem(ctx context.Context, product domain.Product, size string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	if product.ID == "" {
		return domain.Invalid("cart.add", "product id is required")
	}
	if !product.InStock() {
		return domain.ErrOutOfStock
	}

	items, err := s.store.CartItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cart: %w", err)
	}

	merged := false
	for i := range items {
		if items[i].ProductID == product.ID && items[i].Size == size {
			items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, domain.CartItem{
			ID:        domain.NewCartItemID(),
			ProductID: product.ID,
			Quantity:  quantity,
			Size:      size,
			Name:      product.Name,
			Brand:     product.Brand,
			Image:     product.Image,
			Price:     product.EffectivePrice(),
			AddedAt:   time.Now(),
		})
	}

	if err := s.store.SetCartItems(ctx, items); err != nil {
		return err
	}
	s.publish("add")

	s.logger.Info("cart item added",
		"product_id", product.ID,
		"size", size,
		"quantity", quantity,
		"merged", merged,
	)
	return nil
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity == 0 {
		return s.RemoveItem(ctx, itemID)
	}
	if quantity < 0 {
		return domain.ErrInvalidQuantity
	}

	items, err := s.store.CartItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cart: %w", err)
	}

	idx := -1
	for i := range items {
		if items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.logger.Debug("quantity update for missing cart item, publishing for reconciliation", "item_id", itemID)
		s.publish("update")
		return nil
	}

	items[idx].Quantity = quantity

	if err := s.store.SetCartItems(ctx, items); err != nil {
		return err
	}
	s.publish("update")
	return nil
}

func (s *cartService) RemoveItem(ctx context.Context, itemID int64) error {
	items, err := s.store.CartItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cart: %w", err)
	}

	remaining := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID != itemID {
			remaining = append(remaining, item)
		}
	}

	if len(remaining) == len(items) {
		s.logger.Debug("remove for missing cart item, publishing for reconciliation", "item_id", itemID)
		s.publish("remove")
		return nil
	}

	if err := s.store.SetCartItems(ctx, remaining); err != nil {
		return err
	}
	s.publish("remove")
	return nil
}

func (s *cartService) Clear(ctx context.Context) error {
	if err := s.store.SetCartItems(ctx, nil); err != nil {
		return err
	}
	s.publish("clear")

	s.logger.Info("cart cleared")
	return nil
}

func (s *cartService) publish(op string) {
	s.bus.Publish(domain.TopicFor(domain.CollectionCart))
	if s.metrics != nil {
		s.metrics.Mutations.WithLabelValues(domain.CollectionCart, op).Inc()
	}
}
