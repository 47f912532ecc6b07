package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MetodoEfectivo      = "efectivo"
	MetodoTarjeta       = "tarjeta"
	MetodoTransferencia = "transferencia"
	MetodoMercadoPago   = "mercadopago"
)

type Venta struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Producto            string             `bson:"producto" json:"producto"`
	Proveedor           string             `bson:"proveedor" json:"proveedor"`
	PrecioUnitarioVenta float64            `bson:"precioUnitarioVenta" json:"precioUnitarioVenta"`
	Cantidad            int                `bson:"cantidad" json:"cantidad"`
	Cliente             string             `bson:"cliente" json:"cliente"`
	MetodoPago          string             `bson:"metodoPago" json:"metodoPago"`
	IsPagado            bool               `bson:"isPagado" json:"isPagado"`
	UsuarioACargo       string             `bson:"usuarioACargo" json:"usuarioACargo"`
	Fecha               string             `bson:"fecha" json:"fecha"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
}

func (v Venta) Key() StockKey {
	return StockKey{Producto: v.Producto, Proveedor: v.Proveedor}
}

func (v Venta) Total() float64 {
	return v.PrecioUnitarioVenta * float64(v.Cantidad)
}

type VentaInput struct {
	Producto            string     `json:"producto" validate:"required"`
	Proveedor           string     `json:"proveedor" validate:"required"`
	PrecioUnitarioVenta *FlexFloat `json:"precioUnitarioVenta" validate:"required,gte=0"`
	Cantidad            *FlexInt   `json:"cantidad" validate:"required,gt=0"`
	Cliente             string     `json:"cliente" validate:"required"`
	MetodoPago          string     `json:"metodoPago" validate:"required,oneof=efectivo tarjeta transferencia mercadopago"`
	IsPagado            *FlexBool  `json:"isPagado" validate:"required"`
	UsuarioACargo       string     `json:"usuarioACargo" validate:"required"`
	Fecha               string     `json:"fecha" validate:"required,datetime=2006-01-02"`
}

// VentaPatch carries a partial update. Producto and proveedor of a sale
// cannot change.
type VentaPatch struct {
	ID                  string     `json:"id" validate:"required"`
	PrecioUnitarioVenta *FlexFloat `json:"precioUnitarioVenta" validate:"omitempty,gte=0"`
	Cantidad            *FlexInt   `json:"cantidad" validate:"omitempty,gt=0"`
	Cliente             string     `json:"cliente"`
	MetodoPago          string     `json:"metodoPago" validate:"omitempty,oneof=efectivo tarjeta transferencia mercadopago"`
	IsPagado            *FlexBool  `json:"isPagado"`
	UsuarioACargo       string     `json:"usuarioACargo"`
	Fecha               string     `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
}
