package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nikobuddy/caygnusecomers/internal/domain"
	"github.com/nikobuddy/caygnusecomers/internal/pricing"
)

var ErrEmptyCart = errors.New("cart is empty")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Checkout records the order with its outbox event. The cart itself is
// cleared asynchronously by the consumer once the event is published.
func (s *Service) Checkout(ctx context.Context, userID string, items []domain.CartItem, quote *pricing.Quote, couponCode string) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now()
	order := &domain.Order{
		ID:          uuid.New(),
		UserID:      userID,
		Items:       make([]domain.OrderItem, len(items)),
		Subtotal:    quote.Subtotal,
		Discount:    quote.Discount,
		Shipping:    quote.Shipping,
		TotalAmount: quote.Total(),
		CouponCode:  couponCode,
		Status:      domain.OrderStatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, item := range items {
		order.Items[i] = domain.OrderItem{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
	}

	payload, err := json.Marshal(map[string]interface{}{
		"order_id":     order.ID.String(),
		"user_id":      order.UserID,
		"items":        order.Items,
		"total_amount": order.TotalAmount,
		"completed_at": now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checkout payload: %w", err)
	}

	if err := s.repo.CreateOrderWithEvent(ctx, order, payload); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.GetOrdersByUser(ctx, userID)
}
