package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"minishop/internal/cache"
	"minishop/internal/models"
	"minishop/internal/store"
	"minishop/internal/store/storetest"
)

func TestCachedProductsServesRepeatListsFromCache(t *testing.T) {
	inner := storetest.NewProducts()
	products := store.NewCachedProducts(inner, cache.NewMemory(), 0)
	ctx := context.Background()

	require.NoError(t, products.Create(ctx, &models.Product{Title: "Lamp", Category: "home", Price: 49.5}))

	first, err := products.List(ctx, store.ProductListOptions{})
	require.NoError(t, err)
	second, err := products.List(ctx, store.ProductListOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, inner.ListCalls)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, "Lamp", second[0].Title)
}

func TestCachedProductsWritesInvalidate(t *testing.T) {
	inner := storetest.NewProducts()
	products := store.NewCachedProducts(inner, cache.NewMemory(), 0)
	ctx := context.Background()

	lamp := &models.Product{Title: "Lamp", Category: "home"}
	require.NoError(t, products.Create(ctx, lamp))
	_, err := products.List(ctx, store.ProductListOptions{})
	require.NoError(t, err)

	require.NoError(t, products.Update(ctx, lamp.ID, models.ProductFields{Title: "Desk Lamp", Category: "home"}))
	got, err := products.List(ctx, store.ProductListOptions{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Desk Lamp", got[0].Title)

	require.NoError(t, products.Delete(ctx, lamp.ID))
	got, err = products.List(ctx, store.ProductListOptions{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 3, inner.ListCalls)
}

func TestCachedProductsKeysBySearch(t *testing.T) {
	inner := storetest.NewProducts()
	products := store.NewCachedProducts(inner, cache.NewMemory(), 0)
	ctx := context.Background()

	require.NoError(t, products.Create(ctx, &models.Product{Title: "Lamp", Category: "home"}))
	require.NoError(t, products.Create(ctx, &models.Product{Title: "Headphones", Category: "audio"}))

	audio, err := products.List(ctx, store.ProductListOptions{Search: "AUDIO"})
	require.NoError(t, err)
	require.Len(t, audio, 1)
	assert.Equal(t, "Headphones", audio[0].Title)

	all, err := products.List(ctx, store.ProductListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCachedProductsFailedWriteKeepsCache(t *testing.T) {
	inner := storetest.NewProducts()
	c := cache.NewMemory()
	products := store.NewCachedProducts(inner, c, 0)
	ctx := context.Background()

	_, err := products.List(ctx, store.ProductListOptions{})
	require.NoError(t, err)

	err = products.Delete(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = c.Get(ctx, "catalog:version")
	assert.ErrorIs(t, err, cache.ErrMiss)
}
