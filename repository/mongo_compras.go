package repository

import (
	"context"
	"time"

	"powergest/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCompras struct {
	coll *mongo.Collection
}

func (r *mongoCompras) List(ctx context.Context) ([]models.Compra, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	compras := []models.Compra{}
	if err := cursor.All(ctx, &compras); err != nil {
		return nil, err
	}
	return compras, nil
}

func (r *mongoCompras) Get(ctx context.Context, id primitive.ObjectID) (*models.Compra, error) {
	var c models.Compra
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *mongoCompras) Insert(ctx context.Context, c *models.Compra) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, c)
	return err
}

func (r *mongoCompras) Update(ctx context.Context, c *models.Compra) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{
		"producto":             c.Producto,
		"proveedor":            c.Proveedor,
		"marca":                c.Marca,
		"precioUnitarioCompra": c.PrecioUnitarioCompra,
		"cantidad":             c.Cantidad,
		"fecha":                c.Fecha,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoCompras) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoCompras) CountByKey(ctx context.Context, key models.StockKey) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"producto": key.Producto, "proveedor": key.Proveedor})
}
