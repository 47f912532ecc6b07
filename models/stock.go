package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StockKey identifies one inventory line. Purchases, sales and stock rows
// are all grouped by the same producto/proveedor pair.
type StockKey struct {
	Producto  string `bson:"producto" json:"producto"`
	Proveedor string `bson:"proveedor" json:"proveedor"`
}

func (k StockKey) String() string {
	return k.Producto + "\x00" + k.Proveedor
}

// Stock is the derived inventory row for a key.
// CantidadTotal is always CantidadComprada - CantidadVendida.
type Stock struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Producto            string             `bson:"producto" json:"producto"`
	Proveedor           string             `bson:"proveedor" json:"proveedor"`
	PrecioUnitarioVenta float64            `bson:"precioUnitarioVenta" json:"precioUnitarioVenta"`
	CantidadVendida     int                `bson:"cantidadVendida" json:"cantidadVendida"`
	CantidadComprada    int                `bson:"cantidadComprada" json:"cantidadComprada"`
	CantidadTotal       int                `bson:"cantidadTotal" json:"cantidadTotal"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (s Stock) Key() StockKey {
	return StockKey{Producto: s.Producto, Proveedor: s.Proveedor}
}

// StockDelta is applied to a stock row with $inc semantics.
// Precio, when set, replaces the last known sale price.
type StockDelta struct {
	Comprada int
	Vendida  int
	Precio   *float64
}

// StockItem is the row served by GET /api/stock.
type StockItem struct {
	ID                  string  `json:"id"`
	Producto            string  `json:"producto"`
	Proveedor           string  `json:"proveedor"`
	Marca               string  `json:"marca"`
	PrecioUnitarioVenta float64 `json:"precioUnitarioVenta"`
	CantidadVendida     int     `json:"cantidadVendida"`
	CantidadComprada    int     `json:"cantidadComprada"`
	CantidadTotal       int     `json:"cantidadTotal"`
}

// Producto is the sellable product list used by the sales form.
type Producto struct {
	Producto            string  `json:"producto"`
	Proveedor           string  `json:"proveedor"`
	Marca               string  `json:"marca"`
	StockDisponible     int     `json:"stockDisponible"`
	PrecioUnitarioVenta float64 `json:"precioUnitarioVenta"`
}
