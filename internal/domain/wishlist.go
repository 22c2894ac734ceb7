package domain

import (
	"encoding/json"
	"time"
)

// WishlistItem references a product plus a display snapshot taken at
// add-time. The wishlist never holds two entries for the same product id.
type WishlistItem struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand,omitempty"`
	Image     string  `json:"image,omitempty"`
	Price     float64 `json:"price"`
	IsEco     bool    `json:"isEco"`

	AddedAt time.Time `json:"addedAt,omitzero"`

	Extra map[string]json.RawMessage `json:"-"`
}

type wishlistItemJSON WishlistItem

func (w *WishlistItem) UnmarshalJSON(data []byte) error {
	var a wishlistItemJSON
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*w = WishlistItem(a)

	extra, err := extraFields(data, wishlistItemJSON(*w))
	if err != nil {
		return err
	}
	w.Extra = extra
	return nil
}

func (w WishlistItem) MarshalJSON() ([]byte, error) {
	return mergeExtra(wishlistItemJSON(w), w.Extra)
}
