package service_test

import (
	"io"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrinshop/vitrin/internal/domain"
	"github.com/vitrinshop/vitrin/internal/service"
)

func testProduct(id string) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    10,
		Brand:    "Hearthware",
		Quantity: 5,
	}
}

func Test_CartService_AddItem_MergesOnProductAndSize(t *testing.T) {
	ctx := context.Background()
	store, b := newFixture(t)
	cart := service.NewCartService(store, b, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	p := testProduct("p1")
	require.NoError(t, cart.AddItem(ctx, p, "M", 1))
	require.NoError(t, cart.AddItem(ctx, p, "M", 2))

	items, err := cart.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1, "same product and size must merge, not append")
	assert.Equal(t, 3, items[0].Quantity)
}

func Test_CartService_AddItem_DifferentSizeIsANewLine(t *testing.T) {
	ctx := context.Background()
	store, b := newFixture(t)
	cart := service.NewCartService(store, b, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	p := testProduct("p1")
	require.NoError(t, cart.AddItem(ctx, p, "M", 1))
	require.NoError(t, cart.AddItem(ctx, p, "L", 1))

	items, err := cart.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func Test_CartService_AddItem_SnapshotsEffectivePrice(t *testing.T) {
	ctx := context.Background()
	store, b := newFixture(t)
	cart := service.NewCartService(store, b, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	p := testProduct("p1")
	p.Price = 20
	p.SalePrice = 12
	p.IsOnOffer = true
	require.NoError(t, cart.AddItem(ctx, p, "", 1))

	items, err := cart.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 12.0, items[0].Price, "the cart line keeps the price at add time")
}

func Test_CartService_AddItem_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	store, b := newFixture(t)
	cart := service.NewCartService(store, b, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	err := cart.AddItem(ctx, testProduct("p1"), "", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	outOfStock := testProduct("p2")
	outOfStock.Quantity = 0
	err = cart.AddItem(ctx, outOfStock, "", 1)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)

	items, err := cart.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "rejected adds must not write")
}

func Test_CartService_UpdateItemQuantity_ZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	store, b := newFixture(t)
	cart := service.NewCartService(store, b, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	require.NoError(t, cart.AddItem(ctx, testProduct("p1"), "", 1))
	items, err := cart.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, cart.UpdateItemQuantity(ctx, items[0].ID, 0))

	items, err = cart.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func Test_CartService_UpdateItemQuantity_MissingIDStillPublishes(t *testing.T) {
	ctx := context.Background()
	store, b := newFixture(t)
	cart := service.NewCartService(store, b, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	events := countEvents(t, b, domain.TopicCart)

	require.NoError(t, cart.UpdateItemQuantity(ctx, 404, 3), "a missing id is a no-op, not an error")
	assert.Equal(t, 1, *events, "listeners still get a chance to reconcile")
}

func Test_CartService_Clear_EmptiesAndPublishes(t *testing.T) {
	ctx := context.Background()
	store, b := newFixture(t)
	cart := service.NewCartService(store, b, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	require.NoError(t, cart.AddItem(ctx, testProduct("p1"), "", 2))
	events := countEvents(t, b, domain.TopicCart)

	require.NoError(t, cart.Clear(ctx))

	items, err := cart.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 1, *events)
}

func Test_CartService_PublishFollowsWrite(t *testing.T) {
	ctx := context.Background()
	store, b := newFixture(t)
	cart := service.NewCartService(store, b, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	// By the time a listener fires, the write it announces must be durable.
	var seen int
	unsubscribe := b.Subscribe(domain.TopicCart, func() {
		items, err := store.CartItems(ctx)
		require.NoError(t, err)
		seen = len(items)
	})
	t.Cleanup(unsubscribe)

	require.NoError(t, cart.AddItem(ctx, testProduct("p1"), "", 1))
	assert.Equal(t, 1, seen)
}
