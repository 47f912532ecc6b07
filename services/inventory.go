package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"powergest/models"
	"powergest/repository"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Inventory owns the compra and venta records and keeps the derived stock
// rows consistent with them.
type Inventory struct {
	store repository.Store
	locks keyLocks

	mu    sync.RWMutex
	hooks []ChangeHook
}

func NewInventory(store repository.Store, hooks ...ChangeHook) *Inventory {
	return &Inventory{store: store, hooks: hooks}
}

func (s *Inventory) AddHook(h ChangeHook) {
	s.mu.Lock()
	s.hooks = append(s.hooks, h)
	s.mu.Unlock()
}

func (s *Inventory) notify(ctx context.Context, ch Change) {
	s.mu.RLock()
	hooks := s.hooks
	s.mu.RUnlock()
	for _, h := range hooks {
		h.OnChange(ctx, ch)
	}
}

func (s *Inventory) ListCompras(ctx context.Context) ([]models.Compra, error) {
	return s.store.Compras.List(ctx)
}

func (s *Inventory) ListVentas(ctx context.Context) ([]models.Venta, error) {
	return s.store.Ventas.List(ctx)
}

func (s *Inventory) CreateCompra(ctx context.Context, in models.CompraInput) (*models.Compra, error) {
	in.Producto = strings.TrimSpace(in.Producto)
	in.Proveedor = strings.TrimSpace(in.Proveedor)
	in.Marca = strings.TrimSpace(in.Marca)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	c := &models.Compra{
		Producto:             in.Producto,
		Proveedor:            in.Proveedor,
		Marca:                in.Marca,
		PrecioUnitarioCompra: in.PrecioUnitarioCompra.Float(),
		Cantidad:             in.Cantidad.Int(),
		Fecha:                in.Fecha,
	}

	unlock := s.locks.lock(c.Key())
	defer unlock()

	if err := s.store.Compras.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("insert compra: %w", err)
	}
	if err := s.store.Stock.Increment(ctx, c.Key(), models.StockDelta{Comprada: c.Cantidad}); err != nil {
		return nil, fmt.Errorf("update stock after compra %s: %w", c.ID.Hex(), err)
	}

	log.Debug().Str("producto", c.Producto).Str("proveedor", c.Proveedor).
		Int("cantidad", c.Cantidad).Msg("compra created")
	s.notify(ctx, Change{Entity: EntityCompra, Action: ActionCreate, ID: c.ID.Hex(), Record: *c})
	return c, nil
}

func applyCompraPatch(c models.Compra, p models.CompraPatch) models.Compra {
	if v := strings.TrimSpace(p.Producto); v != "" {
		c.Producto = v
	}
	if v := strings.TrimSpace(p.Proveedor); v != "" {
		c.Proveedor = v
	}
	if v := strings.TrimSpace(p.Marca); v != "" {
		c.Marca = v
	}
	if p.PrecioUnitarioCompra != nil {
		c.PrecioUnitarioCompra = p.PrecioUnitarioCompra.Float()
	}
	if p.Cantidad != nil {
		c.Cantidad = p.Cantidad.Int()
	}
	if p.Fecha != "" {
		c.Fecha = p.Fecha
	}
	return c
}

// UpdateCompra edits a purchase. Purchases of a key that already has sales
// are frozen; moving a purchase to another key moves its units with it.
func (s *Inventory) UpdateCompra(ctx context.Context, p models.CompraPatch) (*models.Compra, error) {
	if err := validateStruct(p); err != nil {
		return nil, err
	}
	id, err := repository.ParseID(p.ID)
	if err != nil {
		return nil, err
	}

	existing, unlock, err := s.lockCompra(ctx, id, func(c models.Compra) models.StockKey {
		return applyCompraPatch(c, p).Key()
	})
	if err != nil {
		return nil, err
	}
	defer unlock()

	updated := applyCompraPatch(*existing, p)
	oldKey, newKey := existing.Key(), updated.Key()

	for _, key := range []models.StockKey{oldKey, newKey} {
		has, err := s.store.Ventas.ExistsByKey(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("check ventas: %w", err)
		}
		if has {
			return nil, ErrCompraHasVentas
		}
	}

	if err := s.store.Compras.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update compra: %w", err)
	}

	if oldKey != newKey {
		if err := s.releaseCompra(ctx, oldKey, existing.Cantidad); err != nil {
			return nil, err
		}
		if err := s.store.Stock.Increment(ctx, newKey, models.StockDelta{Comprada: updated.Cantidad}); err != nil {
			return nil, fmt.Errorf("update stock after compra edit: %w", err)
		}
	} else if diff := updated.Cantidad - existing.Cantidad; diff != 0 {
		if err := s.store.Stock.Increment(ctx, newKey, models.StockDelta{Comprada: diff}); err != nil {
			return nil, fmt.Errorf("update stock after compra edit: %w", err)
		}
	}

	s.notify(ctx, Change{Entity: EntityCompra, Action: ActionUpdate, ID: updated.ID.Hex(), Record: updated})
	return &updated, nil
}

// DeleteCompra removes a purchase unless the remaining purchases of its key
// would no longer cover the units already sold.
func (s *Inventory) DeleteCompra(ctx context.Context, rawID string) error {
	id, err := repository.ParseID(rawID)
	if err != nil {
		return err
	}
	existing, unlock, err := s.lockCompra(ctx, id, nil)
	if err != nil {
		return err
	}
	defer unlock()

	key := existing.Key()
	stock, err := s.store.Stock.Find(ctx, key)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return fmt.Errorf("find stock: %w", err)
	default:
		if stock.CantidadVendida > stock.CantidadComprada-existing.Cantidad {
			return ErrCompraBacksVentas
		}
	}

	if err := s.store.Compras.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete compra: %w", err)
	}
	if err := s.releaseCompra(ctx, key, existing.Cantidad); err != nil {
		return err
	}

	s.notify(ctx, Change{Entity: EntityCompra, Action: ActionDelete, ID: rawID, Record: *existing})
	return nil
}

// releaseCompra takes qty purchased units off key, dropping the stock row
// once no purchase of that key remains.
func (s *Inventory) releaseCompra(ctx context.Context, key models.StockKey, qty int) error {
	remaining, err := s.store.Compras.CountByKey(ctx, key)
	if err != nil {
		return fmt.Errorf("count compras: %w", err)
	}
	if remaining == 0 {
		if err := s.store.Stock.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete stock: %w", err)
		}
		return nil
	}
	if err := s.store.Stock.Increment(ctx, key, models.StockDelta{Comprada: -qty}); err != nil {
		return fmt.Errorf("revert stock after compra: %w", err)
	}
	return nil
}

// lockCompra loads a compra and locks its key plus the key returned by
// target. The record is re-read under the lock so a concurrent edit of its
// key is never missed.
func (s *Inventory) lockCompra(ctx context.Context, oid primitive.ObjectID, target func(models.Compra) models.StockKey) (*models.Compra, func(), error) {
	for {
		before, err := s.store.Compras.Get(ctx, oid)
		if err != nil {
			return nil, nil, err
		}
		keys := []models.StockKey{before.Key()}
		if target != nil {
			keys = append(keys, target(*before))
		}
		unlock := s.locks.lock(keys...)

		current, err := s.store.Compras.Get(ctx, oid)
		if err != nil {
			unlock()
			return nil, nil, err
		}
		if current.Key() == before.Key() {
			return current, unlock, nil
		}
		unlock()
	}
}

func (s *Inventory) CreateVenta(ctx context.Context, in models.VentaInput) (*models.Venta, error) {
	in.Producto = strings.TrimSpace(in.Producto)
	in.Proveedor = strings.TrimSpace(in.Proveedor)
	in.Cliente = strings.TrimSpace(in.Cliente)
	in.UsuarioACargo = strings.TrimSpace(in.UsuarioACargo)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	v := &models.Venta{
		Producto:            in.Producto,
		Proveedor:           in.Proveedor,
		PrecioUnitarioVenta: in.PrecioUnitarioVenta.Float(),
		Cantidad:            in.Cantidad.Int(),
		Cliente:             in.Cliente,
		MetodoPago:          in.MetodoPago,
		IsPagado:            in.IsPagado.Bool(),
		UsuarioACargo:       in.UsuarioACargo,
		Fecha:               in.Fecha,
	}
	key := v.Key()

	unlock := s.locks.lock(key)
	defer unlock()

	if err := s.reserve(ctx, key, v.Cantidad, v.PrecioUnitarioVenta); err != nil {
		return nil, err
	}
	if err := s.store.Ventas.Insert(ctx, v); err != nil {
		s.unreserve(ctx, key, v.Cantidad)
		return nil, fmt.Errorf("insert venta: %w", err)
	}

	log.Debug().Str("producto", v.Producto).Str("proveedor", v.Proveedor).
		Int("cantidad", v.Cantidad).Msg("venta created")
	s.notify(ctx, Change{Entity: EntityVenta, Action: ActionCreate, ID: v.ID.Hex(), Record: *v})
	return v, nil
}

// reserve checks availability and takes qty units from the stock of key.
func (s *Inventory) reserve(ctx context.Context, key models.StockKey, qty int, precio float64) error {
	stock, err := s.store.Stock.Find(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNoStock
	}
	if err != nil {
		return fmt.Errorf("find stock: %w", err)
	}
	if stock.CantidadTotal < qty {
		return &InsufficientStockError{Available: stock.CantidadTotal}
	}

	err = s.store.Stock.Reserve(ctx, key, qty, precio)
	if errors.Is(err, repository.ErrInsufficient) {
		// another writer took the units between Find and Reserve
		if fresh, ferr := s.store.Stock.Find(ctx, key); ferr == nil {
			return &InsufficientStockError{Available: fresh.CantidadTotal}
		}
		return ErrNoStock
	}
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}
	return nil
}

func (s *Inventory) unreserve(ctx context.Context, key models.StockKey, qty int) {
	if err := s.store.Stock.Increment(ctx, key, models.StockDelta{Vendida: -qty}); err != nil {
		log.Error().Err(err).Str("producto", key.Producto).Str("proveedor", key.Proveedor).
			Int("cantidad", qty).Msg("failed to release reserved stock")
	}
}

func applyVentaPatch(v models.Venta, p models.VentaPatch) models.Venta {
	if p.PrecioUnitarioVenta != nil {
		v.PrecioUnitarioVenta = p.PrecioUnitarioVenta.Float()
	}
	if p.Cantidad != nil {
		v.Cantidad = p.Cantidad.Int()
	}
	if c := strings.TrimSpace(p.Cliente); c != "" {
		v.Cliente = c
	}
	if p.MetodoPago != "" {
		v.MetodoPago = p.MetodoPago
	}
	if p.IsPagado != nil {
		v.IsPagado = p.IsPagado.Bool()
	}
	if u := strings.TrimSpace(p.UsuarioACargo); u != "" {
		v.UsuarioACargo = u
	}
	if p.Fecha != "" {
		v.Fecha = p.Fecha
	}
	return v
}

// UpdateVenta edits a sale. Growing the quantity takes the extra units from
// stock; the stock row always remembers the latest sale price.
func (s *Inventory) UpdateVenta(ctx context.Context, p models.VentaPatch) (*models.Venta, error) {
	if err := validateStruct(p); err != nil {
		return nil, err
	}
	id, err := repository.ParseID(p.ID)
	if err != nil {
		return nil, err
	}

	before, err := s.store.Ventas.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	key := before.Key()
	unlock := s.locks.lock(key)
	defer unlock()

	existing, err := s.store.Ventas.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := applyVentaPatch(*existing, p)
	diff := updated.Cantidad - existing.Cantidad

	if diff > 0 {
		if err := s.reserve(ctx, key, diff, updated.PrecioUnitarioVenta); err != nil {
			return nil, err
		}
	}
	if err := s.store.Ventas.Update(ctx, &updated); err != nil {
		if diff > 0 {
			s.unreserve(ctx, key, diff)
		}
		return nil, fmt.Errorf("update venta: %w", err)
	}

	if diff <= 0 && (diff != 0 || updated.PrecioUnitarioVenta != existing.PrecioUnitarioVenta) {
		precio := updated.PrecioUnitarioVenta
		if err := s.store.Stock.Increment(ctx, key, models.StockDelta{Vendida: diff, Precio: &precio}); err != nil {
			return nil, fmt.Errorf("update stock after venta edit: %w", err)
		}
	}

	s.notify(ctx, Change{Entity: EntityVenta, Action: ActionUpdate, ID: updated.ID.Hex(), Record: updated})
	return &updated, nil
}

func (s *Inventory) DeleteVenta(ctx context.Context, rawID string) error {
	id, err := repository.ParseID(rawID)
	if err != nil {
		return err
	}
	before, err := s.store.Ventas.Get(ctx, id)
	if err != nil {
		return err
	}
	unlock := s.locks.lock(before.Key())
	defer unlock()

	existing, err := s.store.Ventas.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Ventas.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete venta: %w", err)
	}
	if err := s.store.Stock.Increment(ctx, existing.Key(), models.StockDelta{Vendida: -existing.Cantidad}); err != nil {
		return fmt.Errorf("revert stock after venta: %w", err)
	}

	s.notify(ctx, Change{Entity: EntityVenta, Action: ActionDelete, ID: rawID, Record: *existing})
	return nil
}

// latestMarcas maps each key to the brand of its newest compra. compras must
// be sorted newest first, as CompraRepository.List returns them.
func latestMarcas(compras []models.Compra) map[models.StockKey]string {
	out := make(map[models.StockKey]string, len(compras))
	for _, c := range compras {
		if _, ok := out[c.Key()]; !ok {
			out[c.Key()] = c.Marca
		}
	}
	return out
}

func (s *Inventory) ListStock(ctx context.Context) ([]models.StockItem, error) {
	stock, err := s.store.Stock.List(ctx)
	if err != nil {
		return nil, err
	}
	compras, err := s.store.Compras.List(ctx)
	if err != nil {
		return nil, err
	}
	marcas := latestMarcas(compras)

	items := make([]models.StockItem, 0, len(stock))
	for _, st := range stock {
		marca := marcas[st.Key()]
		if marca == "" {
			marca = models.DefaultMarca
		}
		items = append(items, models.StockItem{
			ID:                  st.ID.Hex(),
			Producto:            st.Producto,
			Proveedor:           st.Proveedor,
			Marca:               marca,
			PrecioUnitarioVenta: st.PrecioUnitarioVenta,
			CantidadVendida:     st.CantidadVendida,
			CantidadComprada:    st.CantidadComprada,
			CantidadTotal:       st.CantidadTotal,
		})
	}
	return items, nil
}

func (s *Inventory) ListProductos(ctx context.Context) ([]models.Producto, error) {
	items, err := s.ListStock(ctx)
	if err != nil {
		return nil, err
	}
	productos := make([]models.Producto, 0, len(items))
	for _, it := range items {
		productos = append(productos, models.Producto{
			Producto:            it.Producto,
			Proveedor:           it.Proveedor,
			Marca:               it.Marca,
			StockDisponible:     it.CantidadTotal,
			PrecioUnitarioVenta: it.PrecioUnitarioVenta,
		})
	}
	return productos, nil
}
