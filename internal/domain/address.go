package domain

import "encoding/json"

// Address is a saved delivery address. At most one address per user may have
// IsDefault set; the address service enforces exclusivity on write.
type Address struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	FullName   string `json:"fullName" validate:"required"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
	Phone      string `json:"phone,omitempty"`

	// Label is the user-facing "save as" name, e.g. "Home" or "Office".
	Label     string `json:"label,omitempty"`
	IsDefault bool   `json:"isDefault"`

	Extra map[string]json.RawMessage `json:"-"`
}

type addressJSON Address

func (a *Address) UnmarshalJSON(data []byte) error {
	var aj addressJSON
	if err := json.Unmarshal(data, &aj); err != nil {
		return err
	}
	*a = Address(aj)

	extra, err := extraFields(data, addressJSON(*a))
	if err != nil {
		return err
	}
	a.Extra = extra
	return nil
}

func (a Address) MarshalJSON() ([]byte, error) {
	return mergeExtra(addressJSON(a), a.Extra)
}
