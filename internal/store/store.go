// Package store defines the persistence contracts used by the API and their
// MongoDB implementations.
package store

import (
	"context"
	"errors"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"minishop/internal/models"
)

const (
	UsersCollection    = "users"
	ProductsCollection = "products"
	OrdersCollection   = "orders"
)

var (
	ErrNotFound  = errors.New("store: document not found")
	ErrDuplicate = errors.New("store: duplicate key")
)

type UserStore interface {
	// Create inserts user and sets its ID. Returns ErrDuplicate when the
	// email is already taken.
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByToken(ctx context.Context, token string) (*models.User, error)
	// SetToken overwrites the user's session token.
	SetToken(ctx context.Context, id primitive.ObjectID, token string) error
}

// MaxPageLimit bounds the page size a caller may request.
const MaxPageLimit = 100

type ProductListOptions struct {
	Search string
	Page   int64 // pagination applies only when both Page and Limit are > 0
	Limit  int64
}

func (o ProductListOptions) Paginated() bool {
	return o.Page > 0 && o.Limit > 0
}

// Skip is the number of documents before the requested page, saturating at
// math.MaxInt64 instead of wrapping.
func (o ProductListOptions) Skip() int64 {
	if !o.Paginated() {
		return 0
	}
	if o.Page-1 > math.MaxInt64/o.Limit {
		return math.MaxInt64
	}
	return (o.Page - 1) * o.Limit
}

type ProductStore interface {
	List(ctx context.Context, opts ProductListOptions) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, fields models.ProductFields) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// OrderFilter restricts a listing to one owner. A nil OwnerID lists all orders.
type OrderFilter struct {
	OwnerID *primitive.ObjectID
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	// List returns matching orders newest first.
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
}
