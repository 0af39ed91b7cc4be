package coupon

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nikobuddy/caygnusecomers/internal/domain"
)

const collectionName = "coupons"

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{collection: db.Collection(collectionName)}
}

// FindAll is a full collection scan; coupon sets are small and the
// storefront matches codes in memory.
func (m *mongoRepository) FindAll(ctx context.Context) ([]domain.Coupon, error) {
	cursor, err := m.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to scan coupons: %w", err)
	}
	defer cursor.Close(ctx)

	var coupons []domain.Coupon
	if err := cursor.All(ctx, &coupons); err != nil {
		return nil, fmt.Errorf("failed to decode coupons: %w", err)
	}
	return coupons, nil
}

// Redeem increments used only while used < limit. The filter and the
// increment land in one store round trip, so two racing redemptions
// cannot both take the last slot.
func (m *mongoRepository) Redeem(ctx context.Context, couponID string) error {
	filter := bson.M{
		"_id":   couponID,
		"$expr": bson.M{"$lt": bson.A{"$used", "$limit"}},
	}
	update := bson.M{"$inc": bson.M{"used": 1}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to redeem coupon: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrLimitReached
	}
	return nil
}

// SetUsed is the legacy write: whatever the caller read plus one,
// regardless of what landed in between.
func (m *mongoRepository) SetUsed(ctx context.Context, couponID string, used int) error {
	update := bson.M{"$set": bson.M{"used": used}}
	_, err := m.collection.UpdateOne(ctx, bson.M{"_id": couponID}, update)
	if err != nil {
		return fmt.Errorf("failed to update coupon usage: %w", err)
	}
	return nil
}
