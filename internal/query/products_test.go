package query_test

import (
	"io"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrinshop/vitrin/internal"
	"github.com/vitrinshop/vitrin/internal/bus"
	"github.com/vitrinshop/vitrin/internal/domain"
	"github.com/vitrinshop/vitrin/internal/query"
	"github.com/vitrinshop/vitrin/internal/service"
	"github.com/vitrinshop/vitrin/internal/storage"
)

func newQueryFixture(t *testing.T) (*storage.Store, *bus.ChangeBus) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storage.New(storage.NewMemoryBackend(), logger, nil)
	return store, bus.New(logger, nil)
}

// seedCatalog writes n canonical products into the store, all in one
// category, without publishing.
func seedCatalog(t *testing.T, store *storage.Store, n int) {
	t.Helper()
	products := make([]domain.Product, 0, n)
	for i := 0; i < n; i++ {
		products = append(products, domain.Product{
			ID:             fmt.Sprintf("p%03d", i),
			Name:           fmt.Sprintf("Product %d", i),
			Price:          float64(i + 1),
			MainCategoryID: "mc_grocery",
			CategoryID:     "cat_pantry",
			SubCategoryID:  "sub_general",
			Quantity:       1,
		})
	}
	require.NoError(t, store.SetProducts(context.Background(), products))
}

// ready polls a watcher until it leaves the loading state.
func ready[T any](t *testing.T, w *query.Watcher[T]) query.Result[T] {
	t.Helper()
	var out query.Result[T]
	require.Eventually(t, func() bool {
		out = w.Snapshot()
		return !out.Loading
	}, 2*time.Second, 2*time.Millisecond)
	return out
}

func Test_Products_PaginationMath(t *testing.T) {
	store, b := newQueryFixture(t)
	seedCatalog(t, store, 25)

	q := query.NewProducts(store, b, slog.New(slog.NewTextHandler(io.Discard, nil)), nil, internal.LatencyConfig{}, query.ProductsParams{Page: 1, Limit: 10})
	defer q.Close()

	first := ready(t, q.Watcher)
	require.NoError(t, first.Err)
	assert.Len(t, first.Data.Products, 10)
	assert.Equal(t, 25, first.Data.Total, "total counts the filtered set, not the page")
	assert.True(t, first.Data.HasMore)

	q.SetParams(query.ProductsParams{Page: 3, Limit: 10})
	require.Eventually(t, func() bool {
		s := q.Snapshot()
		return !s.Loading && s.Data.Page == 3
	}, 2*time.Second, 2*time.Millisecond)

	last := q.Snapshot()
	require.NoError(t, last.Err)
	assert.Len(t, last.Data.Products, 5)
	assert.Equal(t, 25, last.Data.Total)
	assert.False(t, last.Data.HasMore, "10 + 10 + 5 covers all 25")
}

func Test_Products_PageBeyondRangeIsEmpty(t *testing.T) {
	store, b := newQueryFixture(t)
	seedCatalog(t, store, 3)

	q := query.NewProducts(store, b, slog.New(slog.NewTextHandler(io.Discard, nil)), nil, internal.LatencyConfig{}, query.ProductsParams{Page: 9, Limit: 10})
	defer q.Close()

	result := ready(t, q.Watcher)
	require.NoError(t, result.Err)
	assert.Empty(t, result.Data.Products)
	assert.Equal(t, 3, result.Data.Total)
	assert.False(t, result.Data.HasMore)
}

func Test_Products_DisjointCategoryFiltersYieldEmptyNotError(t *testing.T) {
	store, b := newQueryFixture(t)
	seedCatalog(t, store, 5)

	// cat_kitchen is not under mc_grocery; the filters simply never both
	// match.
	q := query.NewProducts(store, b, slog.New(slog.NewTextHandler(io.Discard, nil)), nil, internal.LatencyConfig{}, query.ProductsParams{
		MainCategoryID: "mc_grocery",
		CategoryID:     "cat_kitchen",
		Page:           1,
		Limit:          10,
	})
	defer q.Close()

	result := ready(t, q.Watcher)
	require.NoError(t, result.Err)
	assert.Empty(t, result.Data.Products)
	assert.Zero(t, result.Data.Total)
}

func Test_Products_RefreshesOnMutationWithoutRemount(t *testing.T) {
	ctx := context.Background()
	store, b := newQueryFixture(t)
	seedCatalog(t, store, 2)
	products := service.NewProductService(store, b, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	q := query.NewProducts(store, b, slog.New(slog.NewTextHandler(io.Discard, nil)), nil, internal.LatencyConfig{}, query.ProductsParams{
		MainCategoryID: "mc_grocery",
		Page:           1,
		Limit:          10,
	})
	defer q.Close()

	initial := ready(t, q.Watcher)
	require.NoError(t, initial.Err)
	require.Equal(t, 2, initial.Data.Total)

	require.NoError(t, products.AddProduct(ctx, domain.Product{
		ID:             "p_new",
		Name:           "Fresh Arrival",
		Price:          9,
		MainCategoryID: "mc_grocery",
		CategoryID:     "cat_fresh",
		Quantity:       4,
	}))

	require.Eventually(t, func() bool {
		s := q.Snapshot()
		return !s.Loading && s.Data.Total == 3
	}, 2*time.Second, 2*time.Millisecond, "a live query must pick up the mutation on its own")
}

func Test_Products_CloseDetachesFromTheBus(t *testing.T) {
	store, b := newQueryFixture(t)
	seedCatalog(t, store, 1)

	q := query.NewProducts(store, b, slog.New(slog.NewTextHandler(io.Discard, nil)), nil, internal.LatencyConfig{}, query.ProductsParams{})
	ready(t, q.Watcher)
	require.Equal(t, 1, b.Subscribers(domain.TopicProducts))

	q.Close()
	assert.Zero(t, b.Subscribers(domain.TopicProducts), "a closed query must not leave a dangling listener")
}
