package services

import (
	"context"
	"sync"
	"testing"

	"powergest/models"
	"powergest/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var whey = models.StockKey{Producto: "Whey 1kg", Proveedor: "Distri Norte"}

func flexInt(n int) *models.FlexInt         { v := models.FlexInt(n); return &v }
func flexFloat(f float64) *models.FlexFloat { v := models.FlexFloat(f); return &v }
func flexBool(b bool) *models.FlexBool      { v := models.FlexBool(b); return &v }

func compraIn(key models.StockKey, qty int, precio float64) models.CompraInput {
	return models.CompraInput{
		Producto:             key.Producto,
		Proveedor:            key.Proveedor,
		Marca:                "Star",
		PrecioUnitarioCompra: flexFloat(precio),
		Cantidad:             flexInt(qty),
		Fecha:                "2024-05-01",
	}
}

func ventaIn(key models.StockKey, qty int, precio float64) models.VentaInput {
	return models.VentaInput{
		Producto:            key.Producto,
		Proveedor:           key.Proveedor,
		PrecioUnitarioVenta: flexFloat(precio),
		Cantidad:            flexInt(qty),
		Cliente:             "Juan",
		MetodoPago:          models.MetodoEfectivo,
		IsPagado:            flexBool(true),
		UsuarioACargo:       "Caro",
		Fecha:               "2024-05-02",
	}
}

type recorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *recorder) OnChange(_ context.Context, ch Change) {
	r.mu.Lock()
	r.changes = append(r.changes, ch)
	r.mu.Unlock()
}

func newTestInventory(t *testing.T) (*Inventory, repository.Store, *recorder) {
	t.Helper()
	store := repository.NewMemoryStore()
	rec := &recorder{}
	return NewInventory(store, rec), store, rec
}

func requireStock(t *testing.T, store repository.Store, key models.StockKey, comprada, vendida int) *models.Stock {
	t.Helper()
	st, err := store.Stock.Find(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, comprada, st.CantidadComprada, "cantidadComprada")
	assert.Equal(t, vendida, st.CantidadVendida, "cantidadVendida")
	assert.Equal(t, comprada-vendida, st.CantidadTotal, "cantidadTotal")
	return st
}

func TestCreateCompraCreatesStock(t *testing.T) {
	inv, store, rec := newTestInventory(t)
	ctx := context.Background()

	c, err := inv.CreateCompra(ctx, compraIn(whey, 10, 1000))
	require.NoError(t, err)
	assert.False(t, c.ID.IsZero())

	st := requireStock(t, store, whey, 10, 0)
	assert.Zero(t, st.PrecioUnitarioVenta)

	_, err = inv.CreateCompra(ctx, compraIn(whey, 5, 1100))
	require.NoError(t, err)
	requireStock(t, store, whey, 15, 0)

	require.Len(t, rec.changes, 2)
	assert.Equal(t, EntityCompra, rec.changes[0].Entity)
	assert.Equal(t, ActionCreate, rec.changes[0].Action)
}

func TestCreateCompraValidation(t *testing.T) {
	inv, store, _ := newTestInventory(t)
	ctx := context.Background()

	in := compraIn(whey, 10, 1000)
	in.Producto = "  "
	_, err := inv.CreateCompra(ctx, in)
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "All fields are required")

	in = compraIn(whey, 0, 1000)
	_, err = inv.CreateCompra(ctx, in)
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "Invalid fields: cantidad")

	in = compraIn(whey, 1, 1000)
	in.Fecha = "01/05/2024"
	_, err = inv.CreateCompra(ctx, in)
	assert.ErrorIs(t, err, ErrValidation)

	list, err := store.Compras.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateVenta(t *testing.T) {
	inv, store, _ := newTestInventory(t)
	ctx := context.Background()

	_, err := inv.CreateVenta(ctx, ventaIn(whey, 1, 1500))
	assert.ErrorIs(t, err, ErrNoStock)

	_, err = inv.CreateCompra(ctx, compraIn(whey, 3, 1000))
	require.NoError(t, err)

	v, err := inv.CreateVenta(ctx, ventaIn(whey, 2, 1500))
	require.NoError(t, err)
	assert.True(t, v.IsPagado)
	st := requireStock(t, store, whey, 3, 2)
	assert.Equal(t, 1500.0, st.PrecioUnitarioVenta)

	_, err = inv.CreateVenta(ctx, ventaIn(whey, 2, 1500))
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.EqualError(t, err, "Stock insuficiente. Disponible: 1")
	requireStock(t, store, whey, 3, 2)
}

func TestCreateVentaAllowsFreeSale(t *testing.T) {
	inv, _, _ := newTestInventory(t)
	ctx := context.Background()

	_, err := inv.CreateCompra(ctx, compraIn(whey, 3, 1000))
	require.NoError(t, err)
	_, err = inv.CreateVenta(ctx, ventaIn(whey, 1, 0))
	assert.NoError(t, err)
}

func TestUpdateCompra(t *testing.T) {
	inv, store, _ := newTestInventory(t)
	ctx := context.Background()

	c, err := inv.CreateCompra(ctx, compraIn(whey, 10, 1000))
	require.NoError(t, err)

	updated, err := inv.UpdateCompra(ctx, models.CompraPatch{ID: c.ID.Hex(), Cantidad: flexInt(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Cantidad)
	assert.Equal(t, "Star", updated.Marca)
	requireStock(t, store, whey, 4, 0)

	_, err = inv.UpdateCompra(ctx, models.CompraPatch{ID: "nope"})
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = inv.UpdateCompra(ctx, models.CompraPatch{ID: "65f000000000000000000000"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCompraMovesKey(t *testing.T) {
	inv, store, _ := newTestInventory(t)
	ctx := context.Background()
	other := models.StockKey{Producto: "Creatina", Proveedor: "Distri Norte"}

	c, err := inv.CreateCompra(ctx, compraIn(whey, 10, 1000))
	require.NoError(t, err)
	_, err = inv.CreateCompra(ctx, compraIn(whey, 2, 1000))
	require.NoError(t, err)

	_, err = inv.UpdateCompra(ctx, models.CompraPatch{ID: c.ID.Hex(), Producto: other.Producto, Cantidad: flexInt(6)})
	require.NoError(t, err)
	requireStock(t, store, whey, 2, 0)
	requireStock(t, store, other, 6, 0)
}

func TestUpdateCompraDropsEmptyKey(t *testing.T) {
	inv, store, _ := newTestInventory(t)
	ctx := context.Background()
	other := models.StockKey{Producto: "Creatina", Proveedor: "Distri Norte"}

	c, err := inv.CreateCompra(ctx, compraIn(whey, 10, 1000))
	require.NoError(t, err)
	_, err = inv.UpdateCompra(ctx, models.CompraPatch{ID: c.ID.Hex(), Producto: other.Producto})
	require.NoError(t, err)

	_, err = store.Stock.Find(ctx, whey)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	requireStock(t, store, other, 10, 0)
}

func TestUpdateCompraLockedBySales(t *testing.T) {
	inv, store, _ := newTestInventory(t)
	ctx := context.Background()
	other := models.StockKey{Producto: "Creatina", Proveedor: "Distri Norte"}

	c, err := inv.CreateCompra(ctx, compraIn(whey, 10, 1000))
	require.NoError(t, err)
	_, err = inv.CreateVenta(ctx, ventaIn(whey, 1, 1500))
	require.NoError(t, err)

	_, err = inv.UpdateCompra(ctx, models.CompraPatch{ID: c.ID.Hex(), Cantidad: flexInt(20)})
	assert.ErrorIs(t, err, ErrCompraHasVentas)
	requireStock(t, store, whey, 10, 1)

	// moving another compra onto a key with sales is rejected too
	o, err := inv.CreateCompra(ctx, compraIn(other, 5, 1000))
	require.NoError(t, err)
	_, err = inv.UpdateCompra(ctx, models.CompraPatch{ID: o.ID.Hex(), Producto: whey.Producto})
	assert.ErrorIs(t, err, ErrCompraHasVentas)
	requireStock(t, store, other, 5, 0)
}

func TestDeleteCompra(t *testing.T) {
	inv, store, rec := newTestInventory(t)
	ctx := context.Background()

	first, err := inv.CreateCompra(ctx, compraIn(whey, 5, 1000))
	require.NoError(t, err)
	second, err := inv.CreateCompra(ctx, compraIn(whey, 3, 1000))
	require.NoError(t, err)
	_, err = inv.CreateVenta(ctx, ventaIn(whey, 4, 1500))
	require.NoError(t, err)

	// 4 sold > 8 - 5 remaining
	err = inv.DeleteCompra(ctx, first.ID.Hex())
	assert.ErrorIs(t, err, ErrCompraBacksVentas)
	requireStock(t, store, whey, 8, 4)

	require.NoError(t, inv.DeleteCompra(ctx, second.ID.Hex()))
	requireStock(t, store, whey, 5, 4)

	last := rec.changes[len(rec.changes)-1]
	assert.Equal(t, ActionDelete, last.Action)
	assert.Equal(t, second.ID.Hex(), last.ID)

	assert.ErrorIs(t, inv.DeleteCompra(ctx, second.ID.Hex()), ErrNotFound)
}

func TestDeleteLastCompraRemovesStock(t *testing.T) {
	inv, store, _ := newTestInventory(t)
	ctx := context.Background()

	c, err := inv.CreateCompra(ctx, compraIn(whey, 5, 1000))
	require.NoError(t, err)
	require.NoError(t, inv.DeleteCompra(ctx, c.ID.Hex()))

	_, err = store.Stock.Find(ctx, whey)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateVenta(t *testing.T) {
	inv, store, _ := newTestInventory(t)
	ctx := context.Background()

	_, err := inv.CreateCompra(ctx, compraIn(whey, 5, 1000))
	require.NoError(t, err)
	v, err := inv.CreateVenta(ctx, ventaIn(whey, 2, 1500))
	require.NoError(t, err)

	_, err = inv.UpdateVenta(ctx, models.VentaPatch{ID: v.ID.Hex(), Cantidad: flexInt(4)})
	require.NoError(t, err)
	requireStock(t, store, whey, 5, 4)

	_, err = inv.UpdateVenta(ctx, models.VentaPatch{ID: v.ID.Hex(), Cantidad: flexInt(6)})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.EqualError(t, err, "Stock insuficiente. Disponible: 1")
	requireStock(t, store, whey, 5, 4)

	updated, err := inv.UpdateVenta(ctx, models.VentaPatch{ID: v.ID.Hex(), Cantidad: flexInt(1), PrecioUnitarioVenta: flexFloat(1800)})
	require.NoError(t, err)
	assert.Equal(t, whey, updated.Key())
	st := requireStock(t, store, whey, 5, 1)
	assert.Equal(t, 1800.0, st.PrecioUnitarioVenta)

	_, err = inv.UpdateVenta(ctx, models.VentaPatch{ID: v.ID.Hex(), PrecioUnitarioVenta: flexFloat(1700)})
	require.NoError(t, err)
	st = requireStock(t, store, whey, 5, 1)
	assert.Equal(t, 1700.0, st.PrecioUnitarioVenta)

	_, err = inv.UpdateVenta(ctx, models.VentaPatch{ID: v.ID.Hex(), MetodoPago: "cheque"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteVenta(t *testing.T) {
	inv, store, _ := newTestInventory(t)
	ctx := context.Background()

	_, err := inv.CreateCompra(ctx, compraIn(whey, 5, 1000))
	require.NoError(t, err)
	v, err := inv.CreateVenta(ctx, ventaIn(whey, 2, 1500))
	require.NoError(t, err)

	require.NoError(t, inv.DeleteVenta(ctx, v.ID.Hex()))
	requireStock(t, store, whey, 5, 0)
	assert.ErrorIs(t, inv.DeleteVenta(ctx, v.ID.Hex()), ErrNotFound)
}

func TestConcurrentVentasNeverOversell(t *testing.T) {
	inv, store, _ := newTestInventory(t)
	ctx := context.Background()

	_, err := inv.CreateCompra(ctx, compraIn(whey, 10, 1000))
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	sold := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := inv.CreateVenta(ctx, ventaIn(whey, 1, 1500)); err == nil {
				mu.Lock()
				sold++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, sold)
	requireStock(t, store, whey, 10, 10)
}

func TestListStockAndProductos(t *testing.T) {
	inv, store, _ := newTestInventory(t)
	ctx := context.Background()

	_, err := inv.CreateCompra(ctx, compraIn(whey, 5, 1000))
	require.NoError(t, err)
	newest := compraIn(whey, 1, 1000)
	newest.Marca = "ENA"
	_, err = inv.CreateCompra(ctx, newest)
	require.NoError(t, err)

	// a stock row without compras falls back to the default brand
	orphan := models.StockKey{Producto: "Barra", Proveedor: "Otro"}
	require.NoError(t, store.Stock.Increment(ctx, orphan, models.StockDelta{Comprada: 2}))

	items, err := inv.ListStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Barra", items[0].Producto)
	assert.Equal(t, models.DefaultMarca, items[0].Marca)
	assert.Equal(t, "ENA", items[1].Marca)
	assert.Equal(t, 6, items[1].CantidadTotal)

	productos, err := inv.ListProductos(ctx)
	require.NoError(t, err)
	require.Len(t, productos, 2)
	assert.Equal(t, 6, productos[1].StockDisponible)
}

func TestHistory(t *testing.T) {
	inv, store, _ := newTestInventory(t)
	ctx := context.Background()

	_, err := inv.History(ctx, whey)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = inv.History(ctx, models.StockKey{Producto: "Whey 1kg"})
	assert.ErrorIs(t, err, ErrValidation)

	first := compraIn(whey, 5, 1000)
	first.Fecha = "2024-05-01"
	_, err = inv.CreateCompra(ctx, first)
	require.NoError(t, err)
	sale := ventaIn(whey, 3, 1500)
	sale.Fecha = "2024-05-03"
	_, err = inv.CreateVenta(ctx, sale)
	require.NoError(t, err)
	// recorded after the sale but dated the same day
	restock := compraIn(whey, 2, 1000)
	restock.Fecha = "2024-05-03"
	_, err = inv.CreateCompra(ctx, restock)
	require.NoError(t, err)
	_, err = inv.CreateCompra(ctx, compraIn(models.StockKey{Producto: "Otro", Proveedor: "X"}, 1, 1))
	require.NoError(t, err)

	h, err := inv.History(ctx, whey)
	require.NoError(t, err)
	require.Equal(t, 3, h.TotalEntries)
	assert.Equal(t, 7, h.TotalComprado)
	assert.Equal(t, 3, h.TotalVendido)

	var tipos []string
	var restante []int
	for _, m := range h.Movimientos {
		tipos = append(tipos, m.Tipo)
		restante = append(restante, m.StockRestante)
	}
	assert.Equal(t, []string{models.MovimientoCompra, models.MovimientoCompra, models.MovimientoVenta}, tipos)
	assert.Equal(t, []int{5, 7, 4}, restante)
	assert.Equal(t, 4500.0, h.Movimientos[2].Total)
	assert.Equal(t, "Juan", h.Movimientos[2].Cliente)

	st, err := store.Stock.Find(ctx, whey)
	require.NoError(t, err)
	assert.Equal(t, st.CantidadTotal, h.Movimientos[2].StockRestante)
}
