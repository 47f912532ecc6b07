package repository

import (
	"context"
	"testing"
	"time"

	"powergest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// runStoreContract exercises the behaviour both backends must share.
func runStoreContract(t *testing.T, store Store) {
	ctx := context.Background()
	key := models.StockKey{Producto: "Whey 1kg", Proveedor: "Distri Norte"}

	t.Run("compras", func(t *testing.T) {
		first := &models.Compra{Producto: key.Producto, Proveedor: key.Proveedor, Marca: "ENA",
			PrecioUnitarioCompra: 100, Cantidad: 5, Fecha: "2024-05-01", CreatedAt: time.Now().Add(-time.Hour)}
		second := &models.Compra{Producto: key.Producto, Proveedor: key.Proveedor, Marca: "Star",
			PrecioUnitarioCompra: 110, Cantidad: 3, Fecha: "2024-05-02", CreatedAt: time.Now()}
		require.NoError(t, store.Compras.Insert(ctx, first))
		require.NoError(t, store.Compras.Insert(ctx, second))
		assert.False(t, first.ID.IsZero())

		list, err := store.Compras.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID, "newest first")

		assert.Equal(t, "Star", list[0].Marca)

		n, err := store.Compras.CountByKey(ctx, key)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		first.Cantidad = 7
		require.NoError(t, store.Compras.Update(ctx, first))
		got, err := store.Compras.Get(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, 7, got.Cantidad)

		require.NoError(t, store.Compras.Delete(ctx, first.ID))
		_, err = store.Compras.Get(ctx, first.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, store.Compras.Delete(ctx, first.ID), ErrNotFound)

		n, err = store.Compras.CountByKey(ctx, models.StockKey{Producto: "x", Proveedor: "y"})
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("ventas", func(t *testing.T) {
		v := &models.Venta{Producto: key.Producto, Proveedor: key.Proveedor, PrecioUnitarioVenta: 150,
			Cantidad: 2, Cliente: "Juan", MetodoPago: models.MetodoEfectivo, Fecha: "2024-05-03"}
		require.NoError(t, store.Ventas.Insert(ctx, v))

		ok, err := store.Ventas.ExistsByKey(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Ventas.ExistsByKey(ctx, models.StockKey{Producto: key.Producto, Proveedor: "otro"})
		require.NoError(t, err)
		assert.False(t, ok)

		v.IsPagado = true
		require.NoError(t, store.Ventas.Update(ctx, v))
		got, err := store.Ventas.Get(ctx, v.ID)
		require.NoError(t, err)
		assert.True(t, got.IsPagado)

		assert.ErrorIs(t, store.Ventas.Update(ctx, &models.Venta{ID: primitive.NewObjectID()}), ErrNotFound)
		require.NoError(t, store.Ventas.Delete(ctx, v.ID))
	})

	t.Run("stock", func(t *testing.T) {
		require.NoError(t, store.Stock.Increment(ctx, key, models.StockDelta{Comprada: 10}))
		s, err := store.Stock.Find(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, 10, s.CantidadComprada)
		assert.Equal(t, 10, s.CantidadTotal)
		assert.Zero(t, s.PrecioUnitarioVenta)

		require.NoError(t, store.Stock.Reserve(ctx, key, 4, 180))
		assert.ErrorIs(t, store.Stock.Reserve(ctx, key, 7, 180), ErrInsufficient)
		assert.ErrorIs(t, store.Stock.Reserve(ctx, models.StockKey{Producto: "x", Proveedor: "y"}, 1, 1), ErrInsufficient)

		precio := 200.0
		require.NoError(t, store.Stock.Increment(ctx, key, models.StockDelta{Vendida: -1, Precio: &precio}))
		s, err = store.Stock.Find(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, 3, s.CantidadVendida)
		assert.Equal(t, 7, s.CantidadTotal)
		assert.Equal(t, 200.0, s.PrecioUnitarioVenta)

		other := models.Stock{Producto: "Creatina", Proveedor: "Distri Sur", CantidadComprada: 2, CantidadTotal: 2}
		require.NoError(t, store.Stock.Save(ctx, &other))
		list, err := store.Stock.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Creatina", list[0].Producto, "sorted by producto")

		require.NoError(t, store.Stock.Delete(ctx, key))
		_, err = store.Stock.Find(ctx, key)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("settings", func(t *testing.T) {
		_, err := store.Settings.Get(ctx, models.AdminPasswordKey)
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, store.Settings.Set(ctx, models.AdminPasswordKey, "hash-1"))
		require.NoError(t, store.Settings.Set(ctx, models.AdminPasswordKey, "hash-2"))
		v, err := store.Settings.Get(ctx, models.AdminPasswordKey)
		require.NoError(t, err)
		assert.Equal(t, "hash-2", v)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestParseID(t *testing.T) {
	_, err := ParseID("nope")
	assert.ErrorIs(t, err, ErrInvalidID)

	id := primitive.NewObjectID()
	got, err := ParseID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
