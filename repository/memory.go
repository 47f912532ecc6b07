package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"powergest/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryDB is shared by the in-memory repositories so that a single lock
// covers all collections, mirroring a single database.
type memoryDB struct {
	mu       sync.RWMutex
	compras  map[primitive.ObjectID]models.Compra
	ventas   map[primitive.ObjectID]models.Venta
	stock    map[string]models.Stock
	settings map[string]string
	now      func() time.Time
}

// NewMemoryStore returns a Store kept entirely in process memory.
func NewMemoryStore() Store {
	db := &memoryDB{
		compras:  make(map[primitive.ObjectID]models.Compra),
		ventas:   make(map[primitive.ObjectID]models.Venta),
		stock:    make(map[string]models.Stock),
		settings: make(map[string]string),
		now:      time.Now,
	}
	return Store{
		Compras:  &memoryCompras{db},
		Ventas:   &memoryVentas{db},
		Stock:    &memoryStock{db},
		Settings: &memorySettings{db},
	}
}

type memoryCompras struct{ db *memoryDB }

func (r *memoryCompras) List(_ context.Context) ([]models.Compra, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]models.Compra, 0, len(r.db.compras))
	for _, c := range r.db.compras {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (r *memoryCompras) Get(_ context.Context, id primitive.ObjectID) (*models.Compra, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.compras[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *memoryCompras) Insert(_ context.Context, c *models.Compra) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.db.now()
	}
	r.db.compras[c.ID] = *c
	return nil
}

func (r *memoryCompras) Update(_ context.Context, c *models.Compra) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	old, ok := r.db.compras[c.ID]
	if !ok {
		return ErrNotFound
	}
	c.CreatedAt = old.CreatedAt
	r.db.compras[c.ID] = *c
	return nil
}

func (r *memoryCompras) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.compras[id]; !ok {
		return ErrNotFound
	}
	delete(r.db.compras, id)
	return nil
}

func (r *memoryCompras) CountByKey(_ context.Context, key models.StockKey) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var n int64
	for _, c := range r.db.compras {
		if c.Key() == key {
			n++
		}
	}
	return n, nil
}

type memoryVentas struct{ db *memoryDB }

func (r *memoryVentas) List(_ context.Context) ([]models.Venta, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]models.Venta, 0, len(r.db.ventas))
	for _, v := range r.db.ventas {
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (r *memoryVentas) Get(_ context.Context, id primitive.ObjectID) (*models.Venta, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	v, ok := r.db.ventas[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (r *memoryVentas) Insert(_ context.Context, v *models.Venta) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = r.db.now()
	}
	r.db.ventas[v.ID] = *v
	return nil
}

func (r *memoryVentas) Update(_ context.Context, v *models.Venta) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	old, ok := r.db.ventas[v.ID]
	if !ok {
		return ErrNotFound
	}
	v.CreatedAt = old.CreatedAt
	r.db.ventas[v.ID] = *v
	return nil
}

func (r *memoryVentas) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.ventas[id]; !ok {
		return ErrNotFound
	}
	delete(r.db.ventas, id)
	return nil
}

func (r *memoryVentas) ExistsByKey(_ context.Context, key models.StockKey) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, v := range r.db.ventas {
		if v.Key() == key {
			return true, nil
		}
	}
	return false, nil
}

type memoryStock struct{ db *memoryDB }

func (r *memoryStock) List(_ context.Context) ([]models.Stock, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]models.Stock, 0, len(r.db.stock))
	for _, s := range r.db.stock {
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Producto != out[j].Producto {
			return out[i].Producto < out[j].Producto
		}
		return out[i].Proveedor < out[j].Proveedor
	})
	return out, nil
}

func (r *memoryStock) Find(_ context.Context, key models.StockKey) (*models.Stock, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	s, ok := r.db.stock[key.String()]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *memoryStock) Increment(_ context.Context, key models.StockKey, delta models.StockDelta) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.stock[key.String()]
	if !ok {
		s = models.Stock{ID: primitive.NewObjectID(), Producto: key.Producto, Proveedor: key.Proveedor}
	}
	s.CantidadComprada += delta.Comprada
	s.CantidadVendida += delta.Vendida
	s.CantidadTotal += delta.Comprada - delta.Vendida
	if delta.Precio != nil {
		s.PrecioUnitarioVenta = *delta.Precio
	}
	s.UpdatedAt = r.db.now()
	r.db.stock[key.String()] = s
	return nil
}

func (r *memoryStock) Reserve(_ context.Context, key models.StockKey, qty int, precio float64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.stock[key.String()]
	if !ok || s.CantidadTotal < qty {
		return ErrInsufficient
	}
	s.CantidadVendida += qty
	s.CantidadTotal -= qty
	s.PrecioUnitarioVenta = precio
	s.UpdatedAt = r.db.now()
	r.db.stock[key.String()] = s
	return nil
}

func (r *memoryStock) Save(_ context.Context, s *models.Stock) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if old, ok := r.db.stock[s.Key().String()]; ok {
		s.ID = old.ID
	} else if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	s.UpdatedAt = r.db.now()
	r.db.stock[s.Key().String()] = *s
	return nil
}

func (r *memoryStock) Delete(_ context.Context, key models.StockKey) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.stock, key.String())
	return nil
}

type memorySettings struct{ db *memoryDB }

func (r *memorySettings) Get(_ context.Context, key string) (string, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	v, ok := r.db.settings[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (r *memorySettings) Set(_ context.Context, key, value string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.settings[key] = value
	return nil
}

// newer orders by creation time descending; ObjectIDs break ties since they
// grow monotonically within a process.
func newer(a, b time.Time, aid, bid primitive.ObjectID) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return aid.Hex() > bid.Hex()
}
