// Package pricing is the pure money math of the storefront: subtotals,
// totals and the quote state a cart page carries between actions.
package pricing

import (
	"github.com/nikobuddy/caygnusecomers/internal/coupon"
	"github.com/nikobuddy/caygnusecomers/internal/domain"
)

// Config controls total computation. FloorAtZero clamps the final total
// at 0 when a discount exceeds the subtotal; the observed storefront
// behavior has no floor, so the zero value keeps totals unclamped.
type Config struct {
	FloorAtZero bool
}

// Subtotal sums price x quantity over the cart lines. Line order does
// not affect the result.
func Subtotal(items []domain.CartItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

// Total combines the three components. Negative results are possible
// unless cfg.FloorAtZero is set.
func Total(subtotal, discount, shipping float64, cfg Config) float64 {
	total := subtotal - discount + shipping
	if cfg.FloorAtZero && total < 0 {
		return 0
	}
	return total
}

// Quote is the in-memory pricing state of one cart view: the subtotal,
// the shipping cost and whatever discount the last coupon attempt left
// behind.
type Quote struct {
	Subtotal float64
	Discount float64
	Shipping float64

	cfg Config
}

func NewQuote(items []domain.CartItem, shipping float64, cfg Config) *Quote {
	return &Quote{
		Subtotal: Subtotal(items),
		Shipping: shipping,
		cfg:      cfg,
	}
}

// ApplyCouponResult folds a coupon attempt into the quote. Only an
// unknown code resets an existing discount to zero; "new users only"
// and "limit reached" rejections leave the previous discount standing.
func (q *Quote) ApplyCouponResult(res coupon.Result) {
	switch res.Status {
	case coupon.StatusApplied:
		q.Discount = res.DiscountAmount
	case coupon.StatusInvalid:
		q.Discount = 0
	}
}

// Total is subtotal - discount + shipping under the quote's config.
func (q *Quote) Total() float64 {
	return Total(q.Subtotal, q.Discount, q.Shipping, q.cfg)
}
