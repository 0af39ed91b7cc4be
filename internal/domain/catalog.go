package domain

import "time"

type Product struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64   `bson:"price" json:"price"`
	Image       string    `bson:"image,omitempty" json:"image,omitempty"`
	Category    string    `bson:"category,omitempty" json:"category,omitempty"`
	Stock       int       `bson:"stock" json:"stock"`
	CreatedAt   time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

type Banner struct {
	ID     string `bson:"_id,omitempty" json:"id"`
	Image  string `bson:"image" json:"image"`
	Link   string `bson:"link,omitempty" json:"link,omitempty"`
	Active bool   `bson:"active" json:"active"`
}

// ShippingConfig is the single shared record at config/shipping.
// Cost is read-only from the storefront flow.
type ShippingConfig struct {
	Cost float64 `bson:"cost" json:"cost"`
}
