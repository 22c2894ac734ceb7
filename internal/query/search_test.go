package query_test

import (
	"io"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrinshop/vitrin/internal"
	"github.com/vitrinshop/vitrin/internal/domain"
	"github.com/vitrinshop/vitrin/internal/query"
	"github.com/vitrinshop/vitrin/internal/storage"
)

func searchCatalog() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Espresso Roast", Description: "Dark roast beans", Price: 14, Brand: "Morning Range", MainCategoryID: "mc_grocery", CategoryID: "cat_pantry", Quantity: 5},
		{ID: "p2", Name: "Green Tea", Description: "Loose leaf sencha", Price: 8, Brand: "Leafwork", MainCategoryID: "mc_grocery", CategoryID: "cat_pantry", IsEco: true, Quantity: 5},
		{ID: "p3", Name: "Gooseneck Kettle", Description: "Pour over kettle", Price: 49, SalePrice: 39, IsOnOffer: true, Brand: "Hearthware", MainCategoryID: "mc_home", CategoryID: "cat_kitchen", Quantity: 2},
		{ID: "p4", Name: "Linen Duvet", Description: "Stonewashed linen", Price: 120, Brand: "Hearthware", MainCategoryID: "mc_home", CategoryID: "cat_textiles", IsEco: true, Quantity: 1},
	}
}

func newSearch(t *testing.T, store *storage.Store, params query.SearchParams) *query.Search {
	t.Helper()
	_, b := newQueryFixture(t)
	q := query.NewSearch(store, b, slog.New(slog.NewTextHandler(io.Discard, nil)), nil, internal.LatencyConfig{}, params)
	t.Cleanup(q.Close)
	return q
}

func ids(products []domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func Test_Search_TextMatchesNameAndDescription(t *testing.T) {
	store, _ := newQueryFixture(t)
	require.NoError(t, store.SetProducts(context.Background(), searchCatalog()))

	q := newSearch(t, store, query.SearchParams{Text: "KETTLE"})

	result := ready(t, q.Watcher)
	require.NoError(t, result.Err)
	assert.ElementsMatch(t, []string{"p3"}, ids(result.Data), "match is case-insensitive over name and description")
}

func Test_Search_FiltersCompose(t *testing.T) {
	store, _ := newQueryFixture(t)
	require.NoError(t, store.SetProducts(context.Background(), searchCatalog()))

	min, max := 5.0, 50.0
	q := newSearch(t, store, query.SearchParams{
		Filters: query.SearchFilters{
			MainCategoryID: "mc_home",
			MinPrice:       &min,
			MaxPrice:       &max,
		},
	})

	result := ready(t, q.Watcher)
	require.NoError(t, result.Err)
	assert.ElementsMatch(t, []string{"p3"}, ids(result.Data), "the sale price is the price that is range-checked")
}

func Test_Search_EcoOnly(t *testing.T) {
	store, _ := newQueryFixture(t)
	require.NoError(t, store.SetProducts(context.Background(), searchCatalog()))

	q := newSearch(t, store, query.SearchParams{Filters: query.SearchFilters{EcoOnly: true}})

	result := ready(t, q.Watcher)
	require.NoError(t, result.Err)
	assert.ElementsMatch(t, []string{"p2", "p4"}, ids(result.Data))
}

func Test_Search_BrandMatchIgnoresCaseAndSpacing(t *testing.T) {
	store, _ := newQueryFixture(t)
	require.NoError(t, store.SetProducts(context.Background(), searchCatalog()))

	q := newSearch(t, store, query.SearchParams{Filters: query.SearchFilters{Brand: " morning  range "}})

	result := ready(t, q.Watcher)
	require.NoError(t, result.Err)
	assert.ElementsMatch(t, []string{"p1"}, ids(result.Data))
}

func Test_Search_DeduplicatesByIDKeepingFirst(t *testing.T) {
	store, _ := newQueryFixture(t)

	catalog := searchCatalog()
	duplicate := catalog[0]
	duplicate.Name = "Espresso Roast (legacy copy)"
	catalog = append(catalog, duplicate)
	require.NoError(t, store.SetProducts(context.Background(), catalog))

	q := newSearch(t, store, query.SearchParams{Text: "espresso"})

	result := ready(t, q.Watcher)
	require.NoError(t, result.Err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "Espresso Roast", result.Data[0].Name, "the first occurrence wins")
}

func Test_Search_NoMatchesIsEmptyNotError(t *testing.T) {
	store, _ := newQueryFixture(t)
	require.NoError(t, store.SetProducts(context.Background(), searchCatalog()))

	q := newSearch(t, store, query.SearchParams{Text: "submarine"})

	result := ready(t, q.Watcher)
	require.NoError(t, result.Err)
	assert.Empty(t, result.Data)
}

func Test_Search_SetParamsRefreshes(t *testing.T) {
	store, _ := newQueryFixture(t)
	require.NoError(t, store.SetProducts(context.Background(), searchCatalog()))

	q := newSearch(t, store, query.SearchParams{Text: "tea"})
	result := ready(t, q.Watcher)
	require.NoError(t, result.Err)
	require.ElementsMatch(t, []string{"p2"}, ids(result.Data))

	q.SetParams(query.SearchParams{Text: "linen"})
	require.Eventually(t, func() bool {
		s := q.Snapshot()
		return !s.Loading && len(s.Data) == 1 && s.Data[0].ID == "p4"
	}, 2*time.Second, 2*time.Millisecond)
}
