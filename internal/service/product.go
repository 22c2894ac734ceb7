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

// ProductService mutates the products collection.
type ProductService interface {
	// AddProduct appends a new product. The id must not already exist.
	AddProduct(ctx context.Context, p domain.Product) error

	// UpdateProduct replaces the product with the same id. A missing id is
	// a no-op that still publishes, letting listeners reconcile.
	UpdateProduct(ctx context.Context, p domain.Product) error

	// RemoveProduct deletes a product by id. A missing id is a no-op that
	// still publishes. Existing orders keep their snapshots; nothing
	// cascades.
	RemoveProduct(ctx context.Context, id string) error
}

type productService struct {
	store   *storage.Store
	bus     *bus.ChangeBus
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewProductService creates a ProductService.
func NewProductService(store *storage.Store, changeBus *bus.ChangeBus, logger *slog.Logger, metrics *telemetry.Metrics) ProductService {
	if logger == nil {
		logger = slog.Default()
	}
	return &productService{store: store, bus: changeBus, logger: logger, metrics: metrics}
}

func (s *productService) AddProduct(ctx context.Context, p domain.Product) error {
	if err := validate.Struct(p); err != nil {
		return &domain.Error{Code: domain.EINVALID, Op: "product.add", Message: "Invalid product", Err: err}
	}

	products, err := s.store.Products(ctx)
	if err != nil {
		return fmt.Errorf("failed to read products: %w", err)
	}

	for _, existing := range products {
		if existing.ID == p.ID {
			return domain.Conflict("product.add", "product id already exists: "+p.ID)
		}
	}

	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if err := s.store.SetProducts(ctx, append(products, p)); err != nil {
		return err
	}
	s.publish("add")

	s.logger.Info("product added", "product_id", p.ID, "name", p.Name)
	return nil
}

func (s *productService) UpdateProduct(ctx context.Context, p domain.Product) error {
	if err := validate.Struct(p); err != nil {
		return &domain.Error{Code: domain.EINVALID, Op: "product.update", Message: "Invalid product", Err: err}
	}

	products, err := s.store.Products(ctx)
	if err != nil {
		return fmt.Errorf("failed to read products: %w", err)
	}

	idx := -1
	for i := range products {
		if products[i].ID == p.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.logger.Debug("update for missing product, publishing for reconciliation", "product_id", p.ID)
		s.publish("update")
		return nil
	}

	p.CreatedAt = products[idx].CreatedAt
	p.UpdatedAt = time.Now()
	products[idx] = p

	if err := s.store.SetProducts(ctx, products); err != nil {
		return err
	}
	s.publish("update")

	s.logger.Info("product updated", "product_id", p.ID)
	return nil
}

func (s *productService) RemoveProduct(ctx context.Context, id string) error {
	products, err := s.store.Products(ctx)
	if err != nil {
		return fmt.Errorf("failed to read products: %w", err)
	}

	remaining := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			remaining = append(remaining, p)
		}
	}

	if len(remaining) == len(products) {
		s.logger.Debug("remove for missing product, publishing for reconciliation", "product_id", id)
		s.publish("remove")
		return nil
	}

	if err := s.store.SetProducts(ctx, remaining); err != nil {
		return err
	}
	s.publish("remove")

	s.logger.Info("product removed", "product_id", id)
	return nil
}

func (s *productService) publish(op string) {
	s.bus.Publish(domain.TopicFor(domain.CollectionProducts))
	if s.metrics != nil {
		s.metrics.Mutations.WithLabelValues(domain.CollectionProducts, op).Inc()
	}
}
