package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nikobuddy/caygnusecomers/internal/coupon"
	"github.com/nikobuddy/caygnusecomers/internal/domain"
)

func TestSubtotal(t *testing.T) {
	items := []domain.CartItem{
		{ID: "p1", Price: 10, Quantity: 2},
		{ID: "p2", Price: 5, Quantity: 1},
	}

	assert.Equal(t, 25.0, Subtotal(items))
}

func TestSubtotal_OrderIndependent(t *testing.T) {
	forward := []domain.CartItem{
		{ID: "p1", Price: 19.99, Quantity: 3},
		{ID: "p2", Price: 4.5, Quantity: 2},
		{ID: "p3", Price: 120, Quantity: 1},
	}
	reversed := []domain.CartItem{forward[2], forward[1], forward[0]}

	assert.Equal(t, Subtotal(forward), Subtotal(reversed))
}

func TestSubtotal_Empty(t *testing.T) {
	assert.Equal(t, 0.0, Subtotal(nil))
}

func TestTotal_NoCoupon(t *testing.T) {
	// cart = [{10 x 2}, {5 x 1}], shipping = 3
	items := []domain.CartItem{
		{ID: "p1", Price: 10, Quantity: 2},
		{ID: "p2", Price: 5, Quantity: 1},
	}

	subtotal := Subtotal(items)
	assert.Equal(t, 25.0, subtotal)
	assert.Equal(t, 28.0, Total(subtotal, 0, 3, Config{}))
}

func TestTotal_NoFloor(t *testing.T) {
	// A discount larger than the subtotal drives the total negative.
	total := Total(10, 50, 3, Config{})
	assert.Equal(t, -37.0, total)
}

func TestTotal_FloorAtZero(t *testing.T) {
	total := Total(10, 50, 3, Config{FloorAtZero: true})
	assert.Equal(t, 0.0, total)
}

func TestQuote_AppliedCoupon(t *testing.T) {
	items := []domain.CartItem{
		{ID: "p1", Price: 10, Quantity: 2},
		{ID: "p2", Price: 5, Quantity: 1},
	}
	quote := NewQuote(items, 3, Config{})

	quote.ApplyCouponResult(coupon.Result{Status: coupon.StatusApplied, DiscountAmount: 5})

	assert.Equal(t, 5.0, quote.Discount)
	assert.Equal(t, 23.0, quote.Total())
}

func TestQuote_InvalidCouponResetsDiscount(t *testing.T) {
	quote := NewQuote([]domain.CartItem{{ID: "p1", Price: 20, Quantity: 1}}, 0, Config{})
	quote.Discount = 4 // from an earlier successful application

	quote.ApplyCouponResult(coupon.Result{Status: coupon.StatusInvalid})

	assert.Equal(t, 0.0, quote.Discount)
}

func TestQuote_RejectionsKeepPriorDiscount(t *testing.T) {
	// Only an unknown code clears the discount; other rejections leave
	// whatever the last successful application set.
	for _, status := range []coupon.Status{coupon.StatusNewUsersOnly, coupon.StatusLimitReached} {
		quote := NewQuote([]domain.CartItem{{ID: "p1", Price: 20, Quantity: 1}}, 0, Config{})
		quote.Discount = 4

		quote.ApplyCouponResult(coupon.Result{Status: status})

		assert.Equal(t, 4.0, quote.Discount, "status %s", status)
	}
}
