package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Product is the canonical product record. Storage may hold two generations
// of product data: "current" records that match this shape, and legacy
// records with nullable category ids and inconsistent stock fields
// (boolean inStock, numeric quantity, or neither). Normalize resolves either
// shape into this one; it runs once at the store's read boundary so
// everything downstream only ever sees canonical products.
type Product struct {
	ID            string  `json:"id" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" validate:"gte=0"`
	OriginalPrice float64 `json:"originalPrice,omitempty"`
	SalePrice     float64 `json:"salePrice,omitempty"`

	MainCategoryID string `json:"mainCategoryId,omitempty"`
	CategoryID     string `json:"categoryId,omitempty"`
	SubCategoryID  string `json:"subCategoryId,omitempty"`

	Brand  string   `json:"brand,omitempty"`
	Image  string   `json:"image,omitempty"`
	Images []string `json:"images,omitempty"`

	// Quantity <= 0 means out of stock.
	Quantity int `json:"quantity"`

	IsEco     bool `json:"isEco"`
	IsOnOffer bool `json:"isOnOffer"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`

	// Extra holds fields the canonical schema does not model, preserved
	// verbatim across read-modify-write.
	Extra map[string]json.RawMessage `json:"-"`

	// Stock shape captured on unmarshal, resolved by Normalize.
	hasQuantity   bool
	legacyInStock *bool
}

// productJSON avoids recursing into the custom (un)marshallers.
type productJSON Product

// UnmarshalJSON decodes either product generation and captures unknown
// fields and the raw stock shape for Normalize.
func (p *Product) UnmarshalJSON(data []byte) error {
	var a productJSON
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Product(a)

	extra, err := extraFields(data, productJSON(*p))
	if err != nil {
		return err
	}
	p.Extra = extra

	// Probes decode independently so one malformed legacy field does not
	// mask the other.
	var quantity struct {
		Quantity *int `json:"quantity"`
	}
	if err := json.Unmarshal(data, &quantity); err == nil {
		p.hasQuantity = quantity.Quantity != nil
	}
	var stock struct {
		InStock *bool `json:"inStock"`
	}
	if err := json.Unmarshal(data, &stock); err == nil {
		p.legacyInStock = stock.InStock
	}

	return nil
}

// MarshalJSON re-attaches preserved unknown fields.
func (p Product) MarshalJSON() ([]byte, error) {
	return mergeExtra(productJSON(p), p.Extra)
}

// Normalize resolves a record of either generation into the canonical shape:
// missing category ids get the deterministic defaults, and the stock fields
// collapse into Quantity. A record is never dropped for being legacy-shaped.
func (p *Product) Normalize() {
	if p.MainCategoryID == "" {
		p.MainCategoryID = DefaultMainCategoryID
	}
	if p.CategoryID == "" {
		p.CategoryID = DefaultCategoryID
	}
	if p.SubCategoryID == "" {
		p.SubCategoryID = DefaultSubCategoryID
	}

	hasStock := p.hasQuantity || p.Quantity != 0
	if !hasStock {
		if p.legacyInStock != nil && !*p.legacyInStock {
			p.Quantity = 0
		} else {
			// inStock=true or no stock info at all: assume sellable.
			p.Quantity = DefaultStockQuantity
		}
	}
	if p.Quantity < 0 {
		p.Quantity = 0
	}
	if p.Price < 0 {
		p.Price = 0
	}
}

// InStock reports whether the product can be sold.
func (p Product) InStock() bool {
	return p.Quantity > 0
}

// EffectivePrice is the price the storefront charges right now.
func (p Product) EffectivePrice() float64 {
	if p.IsOnOffer && p.SalePrice > 0 {
		return p.SalePrice
	}
	return p.Price
}

// BrandSlug normalizes a brand name for equality matching: lowercase with
// all whitespace removed, so "Blue Bottle" and "bluebottle" compare equal.
func BrandSlug(brand string) string {
	return strings.ToLower(strings.Join(strings.Fields(brand), ""))
}
