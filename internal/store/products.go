package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"minishop/internal/metrics"
	"minishop/internal/models"
)

type MongoProducts struct {
	col *mongo.Collection
}

func NewMongoProducts(db *mongo.Database) *MongoProducts {
	return &MongoProducts{col: db.Collection(ProductsCollection)}
}

// productFilter matches search as a case-insensitive substring of title or
// category. The search text is matched literally.
func productFilter(search string) bson.M {
	search = strings.TrimSpace(search)
	if search == "" {
		return bson.M{}
	}
	pattern := regexp.QuoteMeta(search)
	return bson.M{"$or": []bson.M{
		{"title": bson.M{"$regex": pattern, "$options": "i"}},
		{"category": bson.M{"$regex": pattern, "$options": "i"}},
	}}
}

func productFindOptions(opts ProductListOptions) *options.FindOptions {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if opts.Paginated() {
		findOptions.
			SetSkip(opts.Skip()).
			SetLimit(opts.Limit)
	}
	return findOptions
}

func (s *MongoProducts) List(ctx context.Context, opts ProductListOptions) ([]models.Product, error) {
	defer metrics.ObserveStore("products.list")()

	cursor, err := s.col.Find(ctx, productFilter(opts.Search), productFindOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (s *MongoProducts) Create(ctx context.Context, product *models.Product) error {
	defer metrics.ObserveStore("products.create")()

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	res, err := s.col.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = id
	}
	return nil
}

func (s *MongoProducts) Update(ctx context.Context, id primitive.ObjectID, fields models.ProductFields) error {
	defer metrics.ObserveStore("products.update")()

	res, err := s.col.UpdateByID(ctx, id, bson.M{"$set": productUpdate(fields, time.Now().UTC())})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func productUpdate(fields models.ProductFields, now time.Time) bson.M {
	return bson.M{
		"title":       fields.Title,
		"description": fields.Description,
		"price":       fields.Price,
		"category":    fields.Category,
		"image":       fields.Image,
		"in_stock":    fields.InStock,
		"updated_at":  now,
	}
}

func (s *MongoProducts) Delete(ctx context.Context, id primitive.ObjectID) error {
	defer metrics.ObserveStore("products.delete")()

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoProducts) Count(ctx context.Context) (int64, error) {
	defer metrics.ObserveStore("products.count")()

	n, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
