package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ComprasCollection = "compras"
	VentasCollection  = "ventas"
	StockCollection   = "stock"
	ConfigCollection  = "config"
)

// NewMongoStore wires the repositories to the collections of db.
func NewMongoStore(db *mongo.Database) Store {
	return Store{
		Compras:  &mongoCompras{coll: db.Collection(ComprasCollection)},
		Ventas:   &mongoVentas{coll: db.Collection(VentasCollection)},
		Stock:    &mongoStock{coll: db.Collection(StockCollection), now: time.Now},
		Settings: &mongoSettings{coll: db.Collection(ConfigCollection)},
	}
}

// EnsureIndexes creates the indexes the queries above rely on. The unique
// index on stock keeps the upserts from ever creating two rows for a key.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	keyIdx := bson.D{{Key: "producto", Value: 1}, {Key: "proveedor", Value: 1}}

	if _, err := db.Collection(StockCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    keyIdx,
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	if _, err := db.Collection(ComprasCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "producto", Value: 1}, {Key: "proveedor", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}); err != nil {
		return err
	}
	if _, err := db.Collection(VentasCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: keyIdx},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}); err != nil {
		return err
	}
	_, err := db.Collection(ConfigCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
