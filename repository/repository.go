// Package repository persists compras, ventas, the derived stock rows and
// panel settings. Two backends exist: MongoDB for deployments and an
// in-memory store for tests and local demos.
package repository

import (
	"context"
	"errors"

	"powergest/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid id")
	// ErrInsufficient is returned by StockRepository.Reserve when the row is
	// missing or holds fewer units than requested.
	ErrInsufficient = errors.New("insufficient stock")
)

type CompraRepository interface {
	// List returns every compra, newest first.
	List(ctx context.Context) ([]models.Compra, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Compra, error)
	Insert(ctx context.Context, c *models.Compra) error
	Update(ctx context.Context, c *models.Compra) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByKey(ctx context.Context, key models.StockKey) (int64, error)
}

type VentaRepository interface {
	// List returns every venta, newest first.
	List(ctx context.Context) ([]models.Venta, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Venta, error)
	Insert(ctx context.Context, v *models.Venta) error
	Update(ctx context.Context, v *models.Venta) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ExistsByKey(ctx context.Context, key models.StockKey) (bool, error)
}

type StockRepository interface {
	// List returns every stock row sorted by producto.
	List(ctx context.Context) ([]models.Stock, error)
	Find(ctx context.Context, key models.StockKey) (*models.Stock, error)
	// Increment applies delta to the row of key, creating it when missing.
	Increment(ctx context.Context, key models.StockKey, delta models.StockDelta) error
	// Reserve atomically moves qty units from total to vendida, failing with
	// ErrInsufficient when fewer than qty units are available.
	Reserve(ctx context.Context, key models.StockKey, qty int, precio float64) error
	Save(ctx context.Context, s *models.Stock) error
	Delete(ctx context.Context, key models.StockKey) error
}

type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Store groups the repositories of one backend.
type Store struct {
	Compras  CompraRepository
	Ventas   VentaRepository
	Stock    StockRepository
	Settings SettingRepository
}

// ParseID converts a hex id coming from a request.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
