package domain

import (
	"encoding/json"
	"time"
)

var (
	ErrEmptyOrder     = &Error{Code: EINVALID, Message: "Order must contain at least one item"}
	ErrInvalidStatus  = &Error{Code: EINVALID, Message: "Unknown order status"}
	ErrOrderImmutable = &Error{Code: ECONFLICT, Message: "Order is in a terminal state and cannot change"}
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// OrderItem is one ordered line, frozen at creation: product reference,
// quantity, unit price and a display snapshot.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Size      string  `json:"size,omitempty"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand,omitempty"`
	Image     string  `json:"image,omitempty"`
}

// Order is a placed order. Line items and totals are immutable after
// creation; only status and delivery metadata may change.
type Order struct {
	ID     string      `json:"id"`
	UserID string      `json:"userId"`
	Items  []OrderItem `json:"items"`
	Status OrderStatus `json:"status"`

	Subtotal float64 `json:"subtotal"`
	Total    float64 `json:"total"`

	DeliveryAddress Address    `json:"deliveryAddress"`
	TrackingNumber  string     `json:"trackingNumber,omitempty"`
	DeliveredAt     *time.Time `json:"deliveredAt,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`

	Extra map[string]json.RawMessage `json:"-"`
}

type orderJSON Order

func (o *Order) UnmarshalJSON(data []byte) error {
	var a orderJSON
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*o = Order(a)

	extra, err := extraFields(data, orderJSON(*o))
	if err != nil {
		return err
	}
	o.Extra = extra
	return nil
}

func (o Order) MarshalJSON() ([]byte, error) {
	return mergeExtra(orderJSON(o), o.Extra)
}
