package query

import (
	"context"
	"log/slog"

	"github.com/vitrinshop/vitrin/internal"
	"github.com/vitrinshop/vitrin/internal/bus"
	"github.com/vitrinshop/vitrin/internal/domain"
	"github.com/vitrinshop/vitrin/internal/storage"
	"github.com/vitrinshop/vitrin/internal/telemetry"
)

// Orders is a live view of a user's order history. An empty user id watches
// every order.
type Orders struct {
	*Watcher[[]domain.Order]
}

// NewOrders starts an Orders query. Callers must Close it when done.
func NewOrders(store *storage.Store, b *bus.ChangeBus, logger *slog.Logger, metrics *telemetry.Metrics, latency internal.LatencyConfig, userID string) *Orders {
	q := &Orders{}
	q.Watcher = newWatcher("orders", logger, metrics, latency, func(ctx context.Context) ([]domain.Order, error) {
		orders, err := store.Orders(ctx)
		if err != nil {
			return nil, err
		}
		if userID == "" {
			return orders, nil
		}
		filtered := make([]domain.Order, 0, len(orders))
		for _, o := range orders {
			if o.UserID == userID {
				filtered = append(filtered, o)
			}
		}
		return filtered, nil
	})
	q.watch(b, domain.TopicOrders)
	q.reload()
	return q
}
