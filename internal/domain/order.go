package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
)

type Order struct {
	ID          uuid.UUID   `json:"id"`
	UserID      string      `json:"user_id"`
	Items       []OrderItem `json:"items"`
	Subtotal    float64     `json:"subtotal"`
	Discount    float64     `json:"discount"`
	Shipping    float64     `json:"shipping"`
	TotalAmount float64     `json:"total_amount"`
	CouponCode  string      `json:"coupon_code,omitempty"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}
