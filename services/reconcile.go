package services

import (
	"context"
	"fmt"

	"powergest/models"

	"github.com/rs/zerolog/log"
)

type ReconcileResult struct {
	Checked   int `json:"checked"`
	Corrected int `json:"corrected"`
	Removed   int `json:"removed"`
}

// Reconcile rebuilds every stock row from the compra and venta records. Rows
// that already match are left alone; the stored sale price is kept, or taken
// from the newest venta when the row has to be recreated.
func (s *Inventory) Reconcile(ctx context.Context) (ReconcileResult, error) {
	unlock := s.locks.lockAll()
	defer unlock()

	var res ReconcileResult

	compras, err := s.store.Compras.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list compras: %w", err)
	}
	ventas, err := s.store.Ventas.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list ventas: %w", err)
	}
	current, err := s.store.Stock.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list stock: %w", err)
	}

	expected := make(map[models.StockKey]*models.Stock)
	row := func(key models.StockKey) *models.Stock {
		st, ok := expected[key]
		if !ok {
			st = &models.Stock{Producto: key.Producto, Proveedor: key.Proveedor}
			expected[key] = st
		}
		return st
	}
	for _, c := range compras {
		row(c.Key()).CantidadComprada += c.Cantidad
	}
	lastPrice := make(map[models.StockKey]float64)
	for _, v := range ventas {
		row(v.Key()).CantidadVendida += v.Cantidad
		if _, ok := lastPrice[v.Key()]; !ok {
			lastPrice[v.Key()] = v.PrecioUnitarioVenta
		}
	}

	existing := make(map[models.StockKey]models.Stock, len(current))
	for _, st := range current {
		existing[st.Key()] = st
	}

	for key, want := range expected {
		res.Checked++
		want.CantidadTotal = want.CantidadComprada - want.CantidadVendida
		if have, ok := existing[key]; ok {
			want.PrecioUnitarioVenta = have.PrecioUnitarioVenta
			if have.CantidadComprada == want.CantidadComprada &&
				have.CantidadVendida == want.CantidadVendida &&
				have.CantidadTotal == want.CantidadTotal {
				continue
			}
		} else {
			want.PrecioUnitarioVenta = lastPrice[key]
		}

		log.Warn().Str("producto", key.Producto).Str("proveedor", key.Proveedor).
			Int("comprada", want.CantidadComprada).Int("vendida", want.CantidadVendida).
			Msg("stock row out of sync, rewriting")
		if err := s.store.Stock.Save(ctx, want); err != nil {
			return res, fmt.Errorf("save stock: %w", err)
		}
		res.Corrected++
	}

	for key := range existing {
		if _, ok := expected[key]; ok {
			continue
		}
		res.Checked++
		log.Warn().Str("producto", key.Producto).Str("proveedor", key.Proveedor).Msg("orphan stock row removed")
		if err := s.store.Stock.Delete(ctx, key); err != nil {
			return res, fmt.Errorf("delete stock: %w", err)
		}
		res.Removed++
	}

	if res.Corrected+res.Removed > 0 {
		s.notify(ctx, Change{Entity: EntityStock, Action: ActionReconcile, Record: res})
	}
	return res, nil
}
