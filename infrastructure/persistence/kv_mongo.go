package persistence

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoKeyValue keeps one document per key, keyed by _id.
type MongoKeyValue struct {
	collection *mongo.Collection
}

func NewMongoKeyValue(client *mongo.Client, database, collection string) *MongoKeyValue {
	if collection == "" {
		collection = DefaultKeyValueTable
	}
	return &MongoKeyValue{collection: client.Database(database).Collection(collection)}
}

func (r *MongoKeyValue) Get(ctx context.Context, key string) (string, bool, error) {
	var doc kvDocument
	err := r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.Value, true, nil
}

func (r *MongoKeyValue) Set(ctx context.Context, key, value string) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "value", Value: value},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}
	_, err := r.collection.UpdateOne(ctx, bson.D{{Key: "_id", Value: key}}, update, options.UpdateOne().SetUpsert(true))
	return err
}

func (r *MongoKeyValue) Delete(ctx context.Context, key string) error {
	_, err := r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: key}})
	return err
}
