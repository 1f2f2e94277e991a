package database

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"minishop/internal/store"
)

func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("email_unique").
				SetUnique(true),
		},
		{
			// one user per token; users without a session hold null
			Keys: bson.D{{Key: "token", Value: 1}},
			Options: options.Index().
				SetName("token_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"token": bson.M{"$type": "string"},
				}),
		},
	}
}

func productIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("created_at_desc"),
	}}
}

func orderIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("user_created_at"),
	}}
}

func ensure(ctx context.Context, db *mongo.Database, collection string, models []mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	slog.Debug("ensuring indexes", "collection", collection, "count", len(models))
	if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	slog.Debug("indexes ready", "collection", collection)
	return nil
}

func EnsureUserIndexes(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db, store.UsersCollection, userIndexes())
}

func EnsureProductIndexes(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db, store.ProductsCollection, productIndexes())
}

func EnsureOrderIndexes(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db, store.OrdersCollection, orderIndexes())
}

// EnsureIndexes creates every index. Failures are logged as warnings and
// returned joined.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	var errs []error
	if err := EnsureUserIndexes(ctx, db); err != nil {
		slog.Warn("user index warning", "error", err)
		errs = append(errs, err)
	}
	if err := EnsureProductIndexes(ctx, db); err != nil {
		slog.Warn("product index warning", "error", err)
		errs = append(errs, err)
	}
	if err := EnsureOrderIndexes(ctx, db); err != nil {
		slog.Warn("order index warning", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// KeepEnsuringIndexes calls EnsureIndexes until it succeeds or ctx ends, so a
// store that comes up after the process still gets its unique indexes.
func KeepEnsuringIndexes(ctx context.Context, db *mongo.Database, interval time.Duration) {
	retryUntilOK(ctx, interval, func(ctx context.Context) error {
		return EnsureIndexes(ctx, db)
	})
}

func retryUntilOK(ctx context.Context, interval time.Duration, fn func(context.Context) error) bool {
	for {
		if err := fn(ctx); err == nil {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(interval):
		}
	}
}
