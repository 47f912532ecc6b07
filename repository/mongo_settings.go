package repository

import (
	"context"

	"powergest/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoSettings struct {
	coll *mongo.Collection
}

func (r *mongoSettings) Get(ctx context.Context, key string) (string, error) {
	var s models.Setting
	if err := r.coll.FindOne(ctx, bson.M{"key": key}).Decode(&s); err != nil {
		return "", notFound(err)
	}
	return s.Value, nil
}

func (r *mongoSettings) Set(ctx context.Context, key, value string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{"key": key, "value": value}},
		options.Update().SetUpsert(true),
	)
	return err
}
