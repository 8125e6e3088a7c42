package service

import (
	"context"
	"sync"
	"testing"

	"rustic-lights-backend/internal/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItem_CreatesCartAndLine(t *testing.T) {
	env := newTestEnv(t)
	svc := env.cartService()
	ctx := context.Background()

	user := env.seedUser(t)
	product := env.seedProduct(t, "100.00")

	cart, err := svc.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, product.ID, cart.Items[0].ProductID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.True(t, cart.Items[0].UnitPrice.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("200.00")))
}

func TestAddItem_QuantityIsAdditive(t *testing.T) {
	env := newTestEnv(t)
	svc := env.cartService()
	ctx := context.Background()

	user := env.seedUser(t)
	product := env.seedProduct(t, "50.00")

	_, err := svc.AddItem(ctx, user.ID, product.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, user.ID, product.ID, 4)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Quantity)
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("350.00")))
}

func TestAddItem_TotalSumsAcrossLines(t *testing.T) {
	env := newTestEnv(t)
	svc := env.cartService()
	ctx := context.Background()

	user := env.seedUser(t)
	lamp := env.seedProduct(t, "100.00")
	shade := env.seedProduct(t, "19.99")

	_, err := svc.AddItem(ctx, user.ID, lamp.ID, 2)
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, user.ID, shade.ID, 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	// 2*100.00 + 3*19.99
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("259.97")),
		"total was %s", cart.Total)
}

func TestAddItem_MissingUserOrProduct(t *testing.T) {
	env := newTestEnv(t)
	svc := env.cartService()
	ctx := context.Background()

	user := env.seedUser(t)
	product := env.seedProduct(t, "10.00")

	_, err := svc.AddItem(ctx, uuid.New(), product.ID, 1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.AddItem(ctx, user.ID, uuid.New(), 1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	env := newTestEnv(t)
	svc := env.cartService()

	user := env.seedUser(t)
	product := env.seedProduct(t, "10.00")

	_, err := svc.AddItem(context.Background(), user.ID, product.ID, 0)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestSetItemQuantity_ReplacesAndRecomputesAllLines(t *testing.T) {
	env := newTestEnv(t)
	svc := env.cartService()
	ctx := context.Background()

	user := env.seedUser(t)
	lamp := env.seedProduct(t, "100.00")
	shade := env.seedProduct(t, "20.00")

	_, err := svc.AddItem(ctx, user.ID, lamp.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, user.ID, shade.ID, 1)
	require.NoError(t, err)

	cart, err := svc.SetItemQuantity(ctx, user.ID, lamp.ID, 5)
	require.NoError(t, err)

	// the untouched line still counts toward the total
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("520.00")),
		"total was %s", cart.Total)
}

func TestSetItemQuantity_MissingLine(t *testing.T) {
	env := newTestEnv(t)
	svc := env.cartService()
	ctx := context.Background()

	user := env.seedUser(t)
	inCart := env.seedProduct(t, "10.00")
	notInCart := env.seedProduct(t, "10.00")

	_, err := svc.AddItem(ctx, user.ID, inCart.ID, 1)
	require.NoError(t, err)

	_, err = svc.SetItemQuantity(ctx, user.ID, notInCart.ID, 2)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRemoveItem_RecomputesRemainingTotal(t *testing.T) {
	env := newTestEnv(t)
	svc := env.cartService()
	ctx := context.Background()

	user := env.seedUser(t)
	lamp := env.seedProduct(t, "100.00")
	shade := env.seedProduct(t, "20.00")

	_, err := svc.AddItem(ctx, user.ID, lamp.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, user.ID, shade.ID, 3)
	require.NoError(t, err)

	cart, err := svc.RemoveItem(ctx, user.ID, lamp.ID)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("60.00")),
		"total was %s", cart.Total)
}

func TestGetCart_MissingCart(t *testing.T) {
	env := newTestEnv(t)
	svc := env.cartService()

	user := env.seedUser(t)

	_, err := svc.GetCart(context.Background(), user.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAddItem_ConcurrentAddsDoNotRaceOnTotal(t *testing.T) {
	env := newTestEnv(t)
	svc := env.cartService()
	ctx := context.Background()

	user := env.seedUser(t)
	product := env.seedProduct(t, "10.00")

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddItem(ctx, user.ID, product.ID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cart, err := svc.GetCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, workers, cart.Items[0].Quantity)
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("100.00")),
		"total was %s", cart.Total)
}
