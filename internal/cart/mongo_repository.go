package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nikobuddy/caygnusecomers/internal/domain"
)

const collectionName = "carts"

// One document per user, keyed by user id, items embedded.
type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{collection: db.Collection(collectionName)}
}

func (m *mongoRepository) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"_id": userID}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

// ReplaceItems writes the full items array back, creating the cart
// document on first use. Whatever another writer did to the array in
// between is overwritten.
func (m *mongoRepository) ReplaceItems(ctx context.Context, userID string, items []domain.CartItem) error {
	now := time.Now()

	filter := bson.M{"_id": userID}
	update := bson.M{
		"$set": bson.M{
			"user_id":    userID,
			"items":      items,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to replace cart items: %w", err)
	}
	return nil
}

func (m *mongoRepository) PushItem(ctx context.Context, userID string, item domain.CartItem) error {
	now := time.Now()

	filter := bson.M{"_id": userID}
	update := bson.M{
		"$push":        bson.M{"items": item},
		"$set":         bson.M{"user_id": userID, "updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to push item: %w", err)
	}
	return nil
}

func (m *mongoRepository) SetItemQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	filter := bson.M{
		"_id":      userID,
		"items.id": itemID,
	}
	update := bson.M{
		"$set": bson.M{
			"items.$[elem].quantity": quantity,
			"updated_at":             time.Now(),
		},
	}
	arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"elem.id": itemID},
		},
	})

	result, err := m.collection.UpdateOne(ctx, filter, update, arrayFilters)
	if err != nil {
		return fmt.Errorf("failed to update item quantity: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (m *mongoRepository) PullItem(ctx context.Context, userID, itemID string) error {
	filter := bson.M{"_id": userID}
	update := bson.M{
		"$pull": bson.M{
			"items": bson.M{"id": itemID},
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}

func (m *mongoRepository) DeleteCart(ctx context.Context, userID string) error {
	filter := bson.M{"_id": userID}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}
