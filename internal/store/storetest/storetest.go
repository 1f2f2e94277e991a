// Package storetest provides in-memory implementations of the store
// interfaces for tests.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"minishop/internal/models"
	"minishop/internal/store"
)

// clock hands out strictly increasing timestamps so newest-first ordering is
// deterministic within a test.
type clock struct {
	mu   sync.Mutex
	last time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := time.Now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Millisecond)
	}
	c.last = t
	return t
}

type Users struct {
	mu    sync.Mutex
	clock clock
	users map[primitive.ObjectID]*models.User

	// Err, when set, is returned by every method.
	Err error
}

func NewUsers() *Users {
	return &Users{users: make(map[primitive.ObjectID]*models.User)}
}

func (s *Users) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = s.clock.now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.Email == email })
}

func (s *Users) FindByToken(_ context.Context, token string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.Token != nil && *u.Token == token })
}

func (s *Users) SetToken(_ context.Context, id primitive.ObjectID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Token = &token
	u.UpdatedAt = s.clock.now()
	return nil
}

// Put stores user as-is, assigning an ID when missing. Used to seed admins.
func (s *Users) Put(user models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = &user
	return user
}

// Count returns the number of stored users.
func (s *Users) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *Users) find(match func(*models.User) bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

type Products struct {
	mu       sync.Mutex
	clock    clock
	products map[primitive.ObjectID]*models.Product

	// ListCalls counts List invocations.
	ListCalls int
	Err       error
}

func NewProducts() *Products {
	return &Products{products: make(map[primitive.ObjectID]*models.Product)}
}

func (s *Products) List(_ context.Context, opts store.ProductListOptions) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++
	if s.Err != nil {
		return nil, s.Err
	}

	search := strings.ToLower(strings.TrimSpace(opts.Search))
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Category), search) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if opts.Paginated() {
		start := opts.Skip()
		if start >= int64(len(out)) {
			return []models.Product{}, nil
		}
		end := start + opts.Limit
		if end > int64(len(out)) || end < start {
			end = int64(len(out))
		}
		out = out[start:end]
	}
	return out, nil
}

func (s *Products) Create(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	product.ID = primitive.NewObjectID()
	product.CreatedAt = s.clock.now()
	product.UpdatedAt = product.CreatedAt
	copied := *product
	s.products[product.ID] = &copied
	return nil
}

func (s *Products) Update(_ context.Context, id primitive.ObjectID, fields models.ProductFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	p, ok := s.products[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Title = fields.Title
	p.Description = fields.Description
	p.Price = fields.Price
	p.Category = fields.Category
	p.Image = fields.Image
	p.InStock = fields.InStock
	p.UpdatedAt = s.clock.now()
	return nil
}

func (s *Products) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Products) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return int64(len(s.products)), nil
}

// Get returns a copy of the stored product.
func (s *Products) Get(id primitive.ObjectID) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return models.Product{}, false
	}
	return *p, true
}

type Orders struct {
	mu     sync.Mutex
	clock  clock
	orders []models.Order

	Err error
}

func NewOrders() *Orders {
	return &Orders{}
}

func (s *Orders) Create(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	order.ID = primitive.NewObjectID()
	order.CreatedAt = s.clock.now()
	order.UpdatedAt = order.CreatedAt
	s.orders = append(s.orders, *order)
	return nil
}

func (s *Orders) List(_ context.Context, filter store.OrderFilter) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if filter.OwnerID != nil && (o.UserID == nil || *o.UserID != *filter.OwnerID) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// All returns every stored order in insertion order.
func (s *Orders) All() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Order(nil), s.orders...)
}

var (
	_ store.UserStore    = (*Users)(nil)
	_ store.ProductStore = (*Products)(nil)
	_ store.OrderStore   = (*Orders)(nil)
	_ store.UserStore    = (*store.MongoUsers)(nil)
	_ store.ProductStore = (*store.MongoProducts)(nil)
	_ store.OrderStore   = (*store.MongoOrders)(nil)
)
