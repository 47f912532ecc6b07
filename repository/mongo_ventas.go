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

type mongoVentas struct {
	coll *mongo.Collection
}

func (r *mongoVentas) List(ctx context.Context) ([]models.Venta, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	ventas := []models.Venta{}
	if err := cursor.All(ctx, &ventas); err != nil {
		return nil, err
	}
	return ventas, nil
}

func (r *mongoVentas) Get(ctx context.Context, id primitive.ObjectID) (*models.Venta, error) {
	var v models.Venta
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

func (r *mongoVentas) Insert(ctx context.Context, v *models.Venta) error {
	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, v)
	return err
}

func (r *mongoVentas) Update(ctx context.Context, v *models.Venta) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": v.ID}, bson.M{"$set": bson.M{
		"precioUnitarioVenta": v.PrecioUnitarioVenta,
		"cantidad":            v.Cantidad,
		"cliente":             v.Cliente,
		"metodoPago":          v.MetodoPago,
		"isPagado":            v.IsPagado,
		"usuarioACargo":       v.UsuarioACargo,
		"fecha":               v.Fecha,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoVentas) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoVentas) ExistsByKey(ctx context.Context, key models.StockKey) (bool, error) {
	n, err := r.coll.CountDocuments(ctx,
		bson.M{"producto": key.Producto, "proveedor": key.Proveedor},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
