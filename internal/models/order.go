package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const OrderStatusPending = "pending"

// OrderItem is a snapshot of a product at purchase time.
type OrderItem struct {
	ProductID string  `bson:"product_id" json:"product_id"`
	Title     string  `bson:"title" json:"title"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Image     *string `bson:"image" json:"image"`
}

// Order defines the persisted order document. UserID is nil for guest
// checkouts.
type Order struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	UserID        *primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name          string              `bson:"name" json:"name"`
	Address       string              `bson:"address" json:"address"`
	PaymentMethod string              `bson:"payment_method" json:"payment_method"`
	Items         []OrderItem         `bson:"items" json:"items"`
	Total         float64             `bson:"total" json:"total"`
	Status        string              `bson:"status" json:"status"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updated_at"`
}

// OrderTotal sums price × quantity over items.
func OrderTotal(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
