package services

import "context"

const (
	EntityCompra = "compra"
	EntityVenta  = "venta"
	EntityStock  = "stock"

	ActionCreate    = "create"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionReconcile = "reconcile"
)

// Change describes a committed mutation. Record holds the compra or venta
// as stored (the deleted one for ActionDelete).
type Change struct {
	Entity string
	Action string
	ID     string
	Record any
}

// ChangeHook is notified after every successful mutation. Hooks run on the
// request goroutine and must not block on network calls.
type ChangeHook interface {
	OnChange(ctx context.Context, ch Change)
}

type HookFunc func(ctx context.Context, ch Change)

func (f HookFunc) OnChange(ctx context.Context, ch Change) { f(ctx, ch) }
