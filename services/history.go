package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"powergest/models"
)

type movimiento struct {
	models.Movimiento
	createdAt time.Time
}

// History lists the compras and ventas of one key in date order with the
// running stock after each movement.
func (s *Inventory) History(ctx context.Context, key models.StockKey) (*models.Historial, error) {
	key.Producto = strings.TrimSpace(key.Producto)
	key.Proveedor = strings.TrimSpace(key.Proveedor)
	if key.Producto == "" || key.Proveedor == "" {
		return nil, &ValidationError{Fields: map[string]string{"producto": "required", "proveedor": "required"}}
	}

	compras, err := s.store.Compras.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list compras: %w", err)
	}
	ventas, err := s.store.Ventas.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ventas: %w", err)
	}

	var movs []movimiento
	for _, c := range compras {
		if c.Key() != key {
			continue
		}
		movs = append(movs, movimiento{createdAt: c.CreatedAt, Movimiento: models.Movimiento{
			Tipo: models.MovimientoCompra, ID: c.ID.Hex(), Fecha: c.Fecha, Cantidad: c.Cantidad,
			PrecioUnitario: c.PrecioUnitarioCompra, Total: c.Total(),
		}})
	}
	for _, v := range ventas {
		if v.Key() != key {
			continue
		}
		movs = append(movs, movimiento{createdAt: v.CreatedAt, Movimiento: models.Movimiento{
			Tipo: models.MovimientoVenta, ID: v.ID.Hex(), Fecha: v.Fecha, Cantidad: v.Cantidad,
			PrecioUnitario: v.PrecioUnitarioVenta, Total: v.Total(), Cliente: v.Cliente,
		}})
	}
	if len(movs) == 0 {
		return nil, ErrNotFound
	}

	// Same day: purchases first, so a sale never shows stock it had not got yet.
	sort.SliceStable(movs, func(i, j int) bool {
		a, b := movs[i], movs[j]
		if a.Fecha != b.Fecha {
			return a.Fecha < b.Fecha
		}
		if a.Tipo != b.Tipo {
			return a.Tipo == models.MovimientoCompra
		}
		return a.createdAt.Before(b.createdAt)
	})

	h := &models.Historial{Producto: key.Producto, Proveedor: key.Proveedor, Movimientos: make([]models.Movimiento, 0, len(movs))}
	restante := 0
	for _, m := range movs {
		if m.Tipo == models.MovimientoCompra {
			restante += m.Cantidad
			h.TotalComprado += m.Cantidad
		} else {
			restante -= m.Cantidad
			h.TotalVendido += m.Cantidad
		}
		m.StockRestante = restante
		h.Movimientos = append(h.Movimientos, m.Movimiento)
	}
	h.TotalEntries = len(h.Movimientos)
	return h, nil
}
