package query

import (
	"strings"

	"github.com/vitrinshop/vitrin/internal/domain"
)

// CategoryFilter narrows products by hierarchy level. Each set id narrows
// further; ids that never co-occur simply produce an empty result.
type CategoryFilter struct {
	MainCategoryID string
	CategoryID     string
	SubCategoryID  string
}

func filterByCategory(products []domain.Product, f CategoryFilter) []domain.Product {
	if f.MainCategoryID == "" && f.CategoryID == "" && f.SubCategoryID == "" {
		return products
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.MainCategoryID != "" && p.MainCategoryID != f.MainCategoryID {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.SubCategoryID != "" && p.SubCategoryID != f.SubCategoryID {
			continue
		}
		out = append(out, p)
	}
	return out
}

func filterByPrice(products []domain.Product, min, max *float64) []domain.Product {
	if min == nil && max == nil {
		return products
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		price := p.EffectivePrice()
		if min != nil && price < *min {
			continue
		}
		if max != nil && price > *max {
			continue
		}
		out = append(out, p)
	}
	return out
}

func filterEco(products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.IsEco {
			out = append(out, p)
		}
	}
	return out
}

func filterByBrand(products []domain.Product, brand string) []domain.Product {
	want := domain.BrandSlug(brand)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if domain.BrandSlug(p.Brand) == want {
			out = append(out, p)
		}
	}
	return out
}

func filterByText(products []domain.Product, text string) []domain.Product {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return products
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out
}

// dedupeByID drops later duplicates, keeping the first occurrence. Legacy
// and current records for the same product can coexist in storage.
func dedupeByID(products []domain.Product) []domain.Product {
	seen := make(map[string]struct{}, len(products))
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// paginate slices one 1-based page out of products. A limit of zero or less
// disables pagination and returns everything as page 1.
func paginate(products []domain.Product, page, limit int) (items []domain.Product, total int, hasMore bool) {
	total = len(products)
	if limit <= 0 {
		return products, total, false
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= total {
		return []domain.Product{}, total, false
	}
	end := start + limit
	if end > total {
		end = total
	}
	return products[start:end], total, end < total
}
