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

// Product is a live view of a single product. Data is nil when no product
// with the id exists; that is an empty result, not an error.
type Product struct {
	*Watcher[*domain.Product]

	idMu sync.Mutex
	id   string
}

// NewProduct starts a single-product query. Callers must Close it when done.
func NewProduct(store *storage.Store, b *bus.ChangeBus, logger *slog.Logger, metrics *telemetry.Metrics, latency internal.LatencyConfig, productID string) *Product {
	q := &Product{id: productID}
	q.Watcher = newWatcher("product", logger, metrics, latency, q.load(store))
	q.watch(b, domain.TopicProducts)
	q.reload()
	return q
}

// SetID points the query at a different product and triggers a reload.
func (q *Product) SetID(productID string) {
	q.idMu.Lock()
	q.id = productID
	q.idMu.Unlock()
	q.reload()
}

func (q *Product) load(store *storage.Store) pipeline[*domain.Product] {
	return func(ctx context.Context) (*domain.Product, error) {
		q.idMu.Lock()
		id := q.id
		q.idMu.Unlock()

		products, err := store.Products(ctx)
		if err != nil {
			return nil, err
		}
		for i := range products {
			if products[i].ID == id {
				p := products[i]
				return &p, nil
			}
		}
		return nil, nil
	}
}
