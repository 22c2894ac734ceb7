package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
	ErrOutOfStock      = &Error{Code: EINVALID, Message: "Product is out of stock"}
)

// CartItem is one cart line. Display fields are a snapshot of the product at
// add-time; later product edits do not rewrite existing lines. The cart
// holds at most one line per (productId, size) pair.
type CartItem struct {
	ID        int64   `json:"id"`
	ProductID string  `json:"productId" validate:"required"`
	Quantity  int     `json:"quantity" validate:"gte=1"`
	Size      string  `json:"size"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand,omitempty"`
	Image     string  `json:"image,omitempty"`
	Price     float64 `json:"price"`

	AddedAt time.Time `json:"addedAt,omitzero"`

	Extra map[string]json.RawMessage `json:"-"`
}

type cartItemJSON CartItem

func (c *CartItem) UnmarshalJSON(data []byte) error {
	var a cartItemJSON
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = CartItem(a)

	extra, err := extraFields(data, cartItemJSON(*c))
	if err != nil {
		return err
	}
	c.Extra = extra
	return nil
}

func (c CartItem) MarshalJSON() ([]byte, error) {
	return mergeExtra(cartItemJSON(c), c.Extra)
}

// LineTotal is the line's price contribution, rounded to cents.
func (c CartItem) LineTotal() float64 {
	return decimal.NewFromFloat(c.Price).
		Mul(decimal.NewFromInt(int64(c.Quantity))).
		Round(2).
		InexactFloat64()
}

// NewCartItemID returns a time-based synthetic line id.
func NewCartItemID() int64 {
	return time.Now().UnixNano()
}
