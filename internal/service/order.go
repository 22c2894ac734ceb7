package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrinshop/vitrin/internal/bus"
	"github.com/vitrinshop/vitrin/internal/domain"
	"github.com/vitrinshop/vitrin/internal/storage"
	"github.com/vitrinshop/vitrin/internal/telemetry"
)

// OrderService mutates the orders collection. Orders are append-mostly:
// creation freezes line items and totals; later mutations may only touch
// status and delivery metadata.
type OrderService interface {
	// Orders returns orders, optionally filtered to one user. An empty
	// userID returns everything.
	Orders(ctx context.Context, userID string) ([]domain.Order, error)

	// CreateOrder places an order from cart lines and a delivery address.
	// The cart itself is not touched; clearing it is the caller's own
	// mutation.
	CreateOrder(ctx context.Context, userID string, items []domain.CartItem, deliveryAddress domain.Address) (*domain.Order, error)

	// UpdateStatus moves an order through its lifecycle. A missing id is a
	// no-op that still publishes. Line items stay untouched, and a
	// delivered or cancelled order cannot leave its terminal state.
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error

	// SetTracking records a tracking number. Same no-op rule as
	// UpdateStatus.
	SetTracking(ctx context.Context, orderID string, trackingNumber string) error
}

type orderService struct {
	store   *storage.Store
	bus     *bus.ChangeBus
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewOrderService creates an OrderService.
func NewOrderService(store *storage.Store, changeBus *bus.ChangeBus, logger *slog.Logger, metrics *telemetry.Metrics) OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &orderService{store: store, bus: changeBus, logger: logger, metrics: metrics}
}

func (s *orderService) Orders(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.store.Orders(ctx)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return orders, nil
	}

	filtered := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.UserID == userID {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

func (s *orderService) CreateOrder(ctx context.Context, userID string, items []domain.CartItem, deliveryAddress domain.Address) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	if err := validate.Struct(deliveryAddress); err != nil {
		return nil, &domain.Error{Code: domain.EINVALID, Op: "order.create", Message: "Invalid delivery address", Err: err}
	}

	lines := make([]domain.OrderItem, 0, len(items))
	subtotal := decimal.Zero
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, domain.ErrInvalidQuantity
		}
		lines = append(lines, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			Size:      item.Size,
			Name:      item.Name,
			Brand:     item.Brand,
			Image:     item.Image,
		})
		subtotal = subtotal.Add(
			decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))),
		)
	}
	subtotal = subtotal.Round(2)

	now := time.Now()
	order := domain.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           lines,
		Status:          domain.OrderStatusPending,
		Subtotal:        subtotal.InexactFloat64(),
		Total:           subtotal.InexactFloat64(),
		DeliveryAddress: deliveryAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	orders, err := s.store.Orders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	if err := s.store.SetOrders(ctx, append(orders, order)); err != nil {
		return nil, err
	}
	s.publish("create")

	s.logger.Info("order created",
		"order_id", order.ID,
		"user_id", userID,
		"lines", len(lines),
		"total", order.Total,
	)
	return &order, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}

	orders, err := s.store.Orders(ctx)
	if err != nil {
		return fmt.Errorf("failed to read orders: %w", err)
	}

	idx := s.find(orders, orderID)
	if idx < 0 {
		s.logger.Debug("status update for missing order, publishing for reconciliation", "order_id", orderID)
		s.publish("status")
		return nil
	}

	if orders[idx].Status.Terminal() && status != orders[idx].Status {
		return domain.ErrOrderImmutable
	}

	orders[idx].Status = status
	orders[idx].UpdatedAt = time.Now()
	if status == domain.OrderStatusDelivered && orders[idx].DeliveredAt == nil {
		deliveredAt := time.Now()
		orders[idx].DeliveredAt = &deliveredAt
	}

	if err := s.store.SetOrders(ctx, orders); err != nil {
		return err
	}
	s.publish("status")

	s.logger.Info("order status updated", "order_id", orderID, "status", status)
	return nil
}

func (s *orderService) SetTracking(ctx context.Context, orderID string, trackingNumber string) error {
	orders, err := s.store.Orders(ctx)
	if err != nil {
		return fmt.Errorf("failed to read orders: %w", err)
	}

	idx := s.find(orders, orderID)
	if idx < 0 {
		s.logger.Debug("tracking update for missing order, publishing for reconciliation", "order_id", orderID)
		s.publish("tracking")
		return nil
	}

	orders[idx].TrackingNumber = trackingNumber
	orders[idx].UpdatedAt = time.Now()

	if err := s.store.SetOrders(ctx, orders); err != nil {
		return err
	}
	s.publish("tracking")
	return nil
}

func (s *orderService) find(orders []domain.Order, orderID string) int {
	for i := range orders {
		if orders[i].ID == orderID {
			return i
		}
	}
	return -1
}

func (s *orderService) publish(op string) {
	s.bus.Publish(domain.TopicFor(domain.CollectionOrders))
	if s.metrics != nil {
		s.metrics.Mutations.WithLabelValues(domain.CollectionOrders, op).Inc()
	}
}
