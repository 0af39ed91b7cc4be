package cart

import (
	"context"
	"errors"

	"github.com/nikobuddy/caygnusecomers/internal/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrItemNotFound = errors.New("item not found in cart")
)

// Repository defines the cart storage operations the service needs.
// ReplaceItems is the whole-array overwrite used by the last-writer-wins
// write mode; PushItem, SetItemQuantity and PullItem are the targeted
// updates used by the atomic mode.
type Repository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	ReplaceItems(ctx context.Context, userID string, items []domain.CartItem) error
	PushItem(ctx context.Context, userID string, item domain.CartItem) error
	SetItemQuantity(ctx context.Context, userID, itemID string, quantity int) error
	PullItem(ctx context.Context, userID, itemID string) error
	DeleteCart(ctx context.Context, userID string) error
}
