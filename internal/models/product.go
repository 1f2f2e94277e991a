package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description *string            `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	Image       *string            `bson:"image" json:"image"`
	InStock     bool               `bson:"in_stock" json:"in_stock"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// ProductFields is the mutable part of a product, written as a whole on
// create and update.
type ProductFields struct {
	Title       string
	Description *string
	Price       float64
	Category    string
	Image       *string
	InStock     bool
}
