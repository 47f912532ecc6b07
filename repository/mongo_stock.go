package repository

import (
	"context"
	"time"

	"powergest/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoStock struct {
	coll *mongo.Collection
	now  func() time.Time
}

func keyFilter(key models.StockKey) bson.M {
	return bson.M{"producto": key.Producto, "proveedor": key.Proveedor}
}

func (r *mongoStock) List(ctx context.Context) ([]models.Stock, error) {
	cursor, err := r.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "producto", Value: 1}, {Key: "proveedor", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stock := []models.Stock{}
	if err := cursor.All(ctx, &stock); err != nil {
		return nil, err
	}
	return stock, nil
}

func (r *mongoStock) Find(ctx context.Context, key models.StockKey) (*models.Stock, error) {
	var s models.Stock
	if err := r.coll.FindOne(ctx, keyFilter(key)).Decode(&s); err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *mongoStock) Increment(ctx context.Context, key models.StockKey, delta models.StockDelta) error {
	set := bson.M{"updatedAt": r.now()}
	update := bson.M{
		"$inc": bson.M{
			"cantidadComprada": delta.Comprada,
			"cantidadVendida":  delta.Vendida,
			"cantidadTotal":    delta.Comprada - delta.Vendida,
		},
		"$set": set,
	}
	if delta.Precio != nil {
		set["precioUnitarioVenta"] = *delta.Precio
	} else {
		update["$setOnInsert"] = bson.M{"precioUnitarioVenta": 0.0}
	}

	_, err := r.coll.UpdateOne(ctx, keyFilter(key), update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoStock) Reserve(ctx context.Context, key models.StockKey, qty int, precio float64) error {
	filter := keyFilter(key)
	filter["cantidadTotal"] = bson.M{"$gte": qty}

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"cantidadVendida": qty, "cantidadTotal": -qty},
		"$set": bson.M{"precioUnitarioVenta": precio, "updatedAt": r.now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInsufficient
	}
	return nil
}

func (r *mongoStock) Save(ctx context.Context, s *models.Stock) error {
	s.UpdatedAt = r.now()
	_, err := r.coll.UpdateOne(ctx, keyFilter(s.Key()), bson.M{"$set": bson.M{
		"producto":            s.Producto,
		"proveedor":           s.Proveedor,
		"precioUnitarioVenta": s.PrecioUnitarioVenta,
		"cantidadVendida":     s.CantidadVendida,
		"cantidadComprada":    s.CantidadComprada,
		"cantidadTotal":       s.CantidadTotal,
		"updatedAt":           s.UpdatedAt,
	}}, options.Update().SetUpsert(true))
	return err
}

func (r *mongoStock) Delete(ctx context.Context, key models.StockKey) error {
	_, err := r.coll.DeleteOne(ctx, keyFilter(key))
	return err
}
