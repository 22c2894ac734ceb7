package query

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vitrinshop/vitrin/internal"
	"github.com/vitrinshop/vitrin/internal/bus"
	"github.com/vitrinshop/vitrin/internal/domain"
	"github.com/vitrinshop/vitrin/internal/storage"
	"github.com/vitrinshop/vitrin/internal/telemetry"
)

// SearchFilters refine a text search. All fields are optional; nil price
// bounds mean unbounded on that side.
type SearchFilters struct {
	MainCategoryID string
	CategoryID     string
	SubCategoryID  string
	MinPrice       *float64
	MaxPrice       *float64
	EcoOnly        bool
	Brand          string
}

// SearchParams are a free-text query plus filters.
type SearchParams struct {
	Text    string
	Filters SearchFilters
}

// Search is a live free-text search over the catalog. The pipeline dedupes
// by product id first, then applies filters in a fixed order: category,
// price, eco, brand, text.
type Search struct {
	*Watcher[[]domain.Product]

	paramsMu sync.Mutex
	params   SearchParams
}

// NewSearch starts a Search query. Callers must Close it when done.
func NewSearch(store *storage.Store, b *bus.ChangeBus, logger *slog.Logger, metrics *telemetry.Metrics, latency internal.LatencyConfig, params SearchParams) *Search {
	q := &Search{params: params}
	q.Watcher = newWatcher("search", logger, metrics, latency, q.load(store))
	q.watch(b, domain.TopicProducts)
	q.reload()
	return q
}

// SetParams changes the search and triggers a reload.
func (q *Search) SetParams(params SearchParams) {
	q.paramsMu.Lock()
	q.params = params
	q.paramsMu.Unlock()
	q.reload()
}

func (q *Search) load(store *storage.Store) pipeline[[]domain.Product] {
	return func(ctx context.Context) ([]domain.Product, error) {
		q.paramsMu.Lock()
		params := q.params
		q.paramsMu.Unlock()

		products, err := store.Products(ctx)
		if err != nil {
			return nil, err
		}

		results := dedupeByID(products)
		results = filterByCategory(results, CategoryFilter{
			MainCategoryID: params.Filters.MainCategoryID,
			CategoryID:     params.Filters.CategoryID,
			SubCategoryID:  params.Filters.SubCategoryID,
		})
		results = filterByPrice(results, params.Filters.MinPrice, params.Filters.MaxPrice)
		if params.Filters.EcoOnly {
			results = filterEco(results)
		}
		if params.Filters.Brand != "" {
			results = filterByBrand(results, params.Filters.Brand)
		}
		results = filterByText(results, params.Text)
		return results, nil
	}
}
