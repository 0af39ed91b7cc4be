package domain

// Coupon is a code-keyed promotional discount record shared by all users.
// Discount is a percentage in [0, 100] applied to the cart subtotal.
type Coupon struct {
	ID           string  `bson:"_id,omitempty" json:"id,omitempty"`
	Code         string  `bson:"code" json:"code"`
	Discount     float64 `bson:"discount" json:"discount"`
	NewUsersOnly bool    `bson:"newUsersOnly" json:"newUsersOnly"`
	Used         int     `bson:"used" json:"used"`
	Limit        int     `bson:"limit" json:"limit"`
}

// Exhausted reports whether the redemption cap has been reached.
func (c Coupon) Exhausted() bool {
	return c.Used >= c.Limit
}
