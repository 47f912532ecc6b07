package models

const (
	MovimientoCompra = "compra"
	MovimientoVenta  = "venta"
)

// Movimiento is one compra or venta in the history of a key, with the stock
// left after it.
type Movimiento struct {
	Tipo           string  `json:"tipo"`
	ID             string  `json:"id"`
	Fecha          string  `json:"fecha"`
	Cantidad       int     `json:"cantidad"`
	PrecioUnitario float64 `json:"precioUnitario"`
	Total          float64 `json:"total"`
	Cliente        string  `json:"cliente,omitempty"`
	StockRestante  int     `json:"stockRestante"`
}

type Historial struct {
	Producto      string       `json:"producto"`
	Proveedor     string       `json:"proveedor"`
	Movimientos   []Movimiento `json:"movimientos"`
	TotalComprado int          `json:"totalComprado"`
	TotalVendido  int          `json:"totalVendido"`
	TotalEntries  int          `json:"totalEntries"`
}
