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

// ProductsParams selects and pages the product catalog. Category ids narrow
// additively; Limit <= 0 disables pagination.
type ProductsParams struct {
	MainCategoryID string
	CategoryID     string
	SubCategoryID  string
	Page           int
	Limit          int
}

// ProductsPage is one committed result of a Products query.
type ProductsPage struct {
	Products []domain.Product
	Total    int
	Page     int
	Limit    int
	HasMore  bool
}

// Products is a live, paginated view over the product catalog. It reloads on
// every products write and on SetParams.
type Products struct {
	*Watcher[ProductsPage]

	paramsMu sync.Mutex
	params   ProductsParams
}

// NewProducts starts a Products query. The initial load begins immediately;
// callers must Close the query when done with it.
func NewProducts(store *storage.Store, b *bus.ChangeBus, logger *slog.Logger, metrics *telemetry.Metrics, latency internal.LatencyConfig, params ProductsParams) *Products {
	q := &Products{params: params}
	q.Watcher = newWatcher("products", logger, metrics, latency, q.load(store))
	q.watch(b, domain.TopicProducts)
	q.reload()
	return q
}

// SetParams changes the selection and triggers a reload, superseding any
// read still in flight.
func (q *Products) SetParams(params ProductsParams) {
	q.paramsMu.Lock()
	q.params = params
	q.paramsMu.Unlock()
	q.reload()
}

// Params returns the current selection.
func (q *Products) Params() ProductsParams {
	q.paramsMu.Lock()
	defer q.paramsMu.Unlock()
	return q.params
}

func (q *Products) load(store *storage.Store) pipeline[ProductsPage] {
	return func(ctx context.Context) (ProductsPage, error) {
		params := q.Params()

		products, err := store.Products(ctx)
		if err != nil {
			return ProductsPage{}, err
		}

		filtered := filterByCategory(products, CategoryFilter{
			MainCategoryID: params.MainCategoryID,
			CategoryID:     params.CategoryID,
			SubCategoryID:  params.SubCategoryID,
		})
		items, total, hasMore := paginate(filtered, params.Page, params.Limit)

		page := params.Page
		if page < 1 {
			page = 1
		}
		return ProductsPage{
			Products: items,
			Total:    total,
			Page:     page,
			Limit:    params.Limit,
			HasMore:  hasMore,
		}, nil
	}
}
