package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"minishop/internal/metrics"
	"minishop/internal/models"
)

type MongoUsers struct {
	col *mongo.Collection
}

func NewMongoUsers(db *mongo.Database) *MongoUsers {
	return &MongoUsers{col: db.Collection(UsersCollection)}
}

func (s *MongoUsers) Create(ctx context.Context, user *models.User) error {
	defer metrics.ObserveStore("users.create")()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := s.col.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (s *MongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer metrics.ObserveStore("users.find_by_email")()
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUsers) FindByToken(ctx context.Context, token string) (*models.User, error) {
	defer metrics.ObserveStore("users.find_by_token")()
	return s.findOne(ctx, bson.M{"token": token})
}

func (s *MongoUsers) SetToken(ctx context.Context, id primitive.ObjectID, token string) error {
	defer metrics.ObserveStore("users.set_token")()

	res, err := s.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"token":      token,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("set user token: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoUsers) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
