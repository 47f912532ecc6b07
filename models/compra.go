package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultMarca is reported for stock rows whose purchases carry no brand.
const DefaultMarca = "ENA"

type Compra struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Producto             string             `bson:"producto" json:"producto"`
	Proveedor            string             `bson:"proveedor" json:"proveedor"`
	Marca                string             `bson:"marca" json:"marca"`
	PrecioUnitarioCompra float64            `bson:"precioUnitarioCompra" json:"precioUnitarioCompra"`
	Cantidad             int                `bson:"cantidad" json:"cantidad"`
	Fecha                string             `bson:"fecha" json:"fecha"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
}

func (c Compra) Key() StockKey {
	return StockKey{Producto: c.Producto, Proveedor: c.Proveedor}
}

func (c Compra) Total() float64 {
	return c.PrecioUnitarioCompra * float64(c.Cantidad)
}

type CompraInput struct {
	Producto             string     `json:"producto" validate:"required"`
	Proveedor            string     `json:"proveedor" validate:"required"`
	Marca                string     `json:"marca" validate:"required"`
	PrecioUnitarioCompra *FlexFloat `json:"precioUnitarioCompra" validate:"required,gt=0"`
	Cantidad             *FlexInt   `json:"cantidad" validate:"required,gt=0"`
	Fecha                string     `json:"fecha" validate:"required,datetime=2006-01-02"`
}

// CompraPatch carries a partial update. Empty strings and nil numbers keep
// the stored value.
type CompraPatch struct {
	ID                   string     `json:"id" validate:"required"`
	Producto             string     `json:"producto"`
	Proveedor            string     `json:"proveedor"`
	Marca                string     `json:"marca"`
	PrecioUnitarioCompra *FlexFloat `json:"precioUnitarioCompra" validate:"omitempty,gt=0"`
	Cantidad             *FlexInt   `json:"cantidad" validate:"omitempty,gt=0"`
	Fecha                string     `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
}
