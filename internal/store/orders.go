package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"minishop/internal/metrics"
	"minishop/internal/models"
)

type MongoOrders struct {
	col *mongo.Collection
}

func NewMongoOrders(db *mongo.Database) *MongoOrders {
	return &MongoOrders{col: db.Collection(OrdersCollection)}
}

func (s *MongoOrders) Create(ctx context.Context, order *models.Order) error {
	defer metrics.ObserveStore("orders.create")()

	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := s.col.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return nil
}

func orderFilter(filter OrderFilter) bson.M {
	if filter.OwnerID == nil {
		return bson.M{}
	}
	return bson.M{"user_id": *filter.OwnerID}
}

func (s *MongoOrders) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	defer metrics.ObserveStore("orders.list")()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.col.Find(ctx, orderFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}
