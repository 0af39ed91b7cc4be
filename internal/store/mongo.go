package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

// MongoStore implements DocumentStore on a MongoDB database, one
// collection per document collection, "_id" as the document id.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) GetDocument(ctx context.Context, collection, id string) (Document, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return Document(doc), nil
}

func (s *MongoStore) SetDocument(ctx context.Context, collection, id string, fields Document) error {
	replacement := bson.M(fields)
	replacement["_id"] = id
	opts := options.Replace().SetUpsert(true)
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, replacement, opts)
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) UpdateFields(ctx context.Context, collection, id string, fields Document) error {
	update := bson.M{"$set": bson.M(fields)}
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) QueryByField(ctx context.Context, collection, field string, op Operator, value interface{}) ([]Document, error) {
	var filter bson.M
	switch op {
	case OpEqual:
		filter = bson.M{field: value}
	case OpGreaterOrEqual:
		filter = bson.M{field: bson.M{"$gte": value}}
	case OpLessOrEqual:
		filter = bson.M{field: bson.M{"$lte": value}}
	default:
		return nil, fmt.Errorf("unsupported operator %q", op)
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s by %s: %w", collection, field, err)
	}
	defer cursor.Close(ctx)

	var docs []Document
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s document: %w", collection, err)
		}
		docs = append(docs, Document(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error on %s: %w", collection, err)
	}
	return docs, nil
}
