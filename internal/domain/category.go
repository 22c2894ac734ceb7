package domain

// Category ids assigned to legacy products that predate the normalized
// category hierarchy. Deterministic so repeated reads agree.
const (
	DefaultMainCategoryID = "mc_general"
	DefaultCategoryID     = "cat_general"
	DefaultSubCategoryID  = "sub_general"
)

// DefaultStockQuantity is the stock level assumed for records that carry no
// usable stock information (legacy inStock=true or nothing at all).
const DefaultStockQuantity = 10

// CategoryNode is one level of the category hierarchy:
// main category -> category -> subcategory. Read-only reference data; the
// core never mutates it.
type CategoryNode struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Image       string         `json:"image,omitempty"`
	Description string         `json:"description,omitempty"`
	Children    []CategoryNode `json:"children,omitempty"`
}

// FindCategory returns the node with the given id, searching depth-first.
// Returns nil if no node matches.
func FindCategory(nodes []CategoryNode, id string) *CategoryNode {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i]
		}
		if found := FindCategory(nodes[i].Children, id); found != nil {
			return found
		}
	}
	return nil
}

// DefaultCategories returns the built-in category tree.
func DefaultCategories() []CategoryNode {
	return []CategoryNode{
		{
			ID:   "mc_grocery",
			Name: "Grocery",
			Children: []CategoryNode{
				{
					ID:   "cat_pantry",
					Name: "Pantry",
					Children: []CategoryNode{
						{ID: "sub_coffee_tea", Name: "Coffee & Tea"},
						{ID: "sub_snacks", Name: "Snacks"},
					},
				},
				{
					ID:   "cat_fresh",
					Name: "Fresh",
					Children: []CategoryNode{
						{ID: "sub_fruit", Name: "Fruit"},
						{ID: "sub_dairy", Name: "Dairy"},
					},
				},
			},
		},
		{
			ID:   "mc_home",
			Name: "Home & Living",
			Children: []CategoryNode{
				{
					ID:   "cat_kitchen",
					Name: "Kitchen",
					Children: []CategoryNode{
						{ID: "sub_brewing", Name: "Brewing Gear"},
						{ID: "sub_tableware", Name: "Tableware"},
					},
				},
				{
					ID:   "cat_textiles",
					Name: "Textiles",
					Children: []CategoryNode{
						{ID: "sub_bedding", Name: "Bedding"},
						{ID: "sub_towels", Name: "Towels"},
					},
				},
			},
		},
		{
			ID:          DefaultMainCategoryID,
			Name:        "General",
			Description: "Catch-all for products without a normalized category",
			Children: []CategoryNode{
				{
					ID:   DefaultCategoryID,
					Name: "General",
					Children: []CategoryNode{
						{ID: DefaultSubCategoryID, Name: "General"},
					},
				},
			},
		},
	}
}
