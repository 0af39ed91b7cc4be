package domain

import "time"

// Cart is one user's pending purchases, stored as a single document
// keyed by user id.
type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string     `bson:"user_id" json:"user_id"`
	Items     []CartItem `bson:"items" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// CartItem is one product line. Name, price and image are snapshotted
// at add time and never re-read from the catalog.
type CartItem struct {
	ID       string    `bson:"id" json:"id"`
	Name     string    `bson:"name" json:"name"`
	Price    float64   `bson:"price" json:"price"`
	Quantity int       `bson:"quantity" json:"quantity"`
	Image    string    `bson:"image,omitempty" json:"image,omitempty"`
	AddedAt  time.Time `bson:"added_at" json:"added_at"`
}

// FindItem returns the index of the line with the given id, or -1.
func (c *Cart) FindItem(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}
