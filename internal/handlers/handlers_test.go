package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"minishop/internal/auth"
	"minishop/internal/middleware"
	"minishop/internal/models"
	"minishop/internal/store"
	"minishop/internal/store/storetest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	users    *storetest.Users
	products *storetest.Products
	orders   *storetest.Orders
	router   *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    storetest.NewUsers(),
		products: storetest.NewProducts(),
		orders:   storetest.NewOrders(),
	}
	accounts := auth.NewService(f.users, auth.SHA256Hasher{}, auth.RandomIssuer{})

	r := gin.New()
	api := r.Group("/api", middleware.Authenticate(auth.NewAuthenticator(f.users)))
	api.POST("/auth/signup", Signup(accounts))
	api.POST("/auth/login", Login(accounts))
	api.GET("/me", middleware.Guard(auth.Authenticated), Me())
	api.GET("/products", GetProducts(f.products))
	api.POST("/products", middleware.Guard(auth.AdminOnly), CreateProduct(f.products))
	api.PUT("/products/:id", middleware.Guard(auth.AdminOnly), UpdateProduct(f.products))
	api.DELETE("/products/:id", middleware.Guard(auth.AdminOnly), DeleteProduct(f.products))
	api.POST("/orders", CreateOrder(f.orders))
	api.GET("/orders", middleware.Guard(auth.OwnerOrAdmin), GetOrders(f.orders))
	f.router = r
	return f
}

func (f *fixture) putUser(t *testing.T, name, token string, admin bool) models.User {
	t.Helper()
	return f.users.Put(models.User{
		Name:    name,
		Email:   strings.ToLower(name) + "@x.com",
		IsAdmin: admin,
		Token:   &token,
	})
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func TestSignupAndLogin(t *testing.T) {
	f := newFixture(t)

	w, body := f.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"name": "Ann", "email": "Ann@X.com", "password": "pw1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Signup successful", body["message"])
	assert.NotEmpty(t, body["user_id"])

	w, body = f.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"name": "Ann", "email": "ann@x.com", "password": "other"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already registered", body["error"])
	assert.Equal(t, 1, f.users.Count())

	w, body = f.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ann@x.com", "password": "pw1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["token"], 32)
	assert.Equal(t, "Ann", body["name"])
	assert.Equal(t, false, body["is_admin"])

	w, body = f.do(t, http.MethodGet, "/api/me", body["token"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ann@x.com", body["email"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"name": "Ann", "email": "ann@x.com", "password": "pw1"})

	w, body := f.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ann@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", body["error"])

	w, _ = f.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "nobody@x.com", "password": "pw1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignupValidation(t *testing.T) {
	f := newFixture(t)

	w, body := f.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"name": "Ann", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation failed", body["error"])
	assert.Contains(t, body["details"], "email must be a valid email address")
	assert.Contains(t, body["details"], "password is required")
}

func TestMeRequiresToken(t *testing.T) {
	f := newFixture(t)

	w, body := f.do(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", body["error"])

	w, _ = f.do(t, http.MethodGet, "/api/me", "unknown", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProductAdminFlow(t *testing.T) {
	f := newFixture(t)
	f.putUser(t, "Root", "admin-token", true)

	w, body := f.do(t, http.MethodPost, "/api/products", "admin-token", gin.H{"title": "Lamp", "price": 12.5, "category": "Home"})
	require.Equal(t, http.StatusOK, w.Code)
	id, err := primitive.ObjectIDFromHex(body["product_id"].(string))
	require.NoError(t, err)

	p, ok := f.products.Get(id)
	require.True(t, ok)
	assert.True(t, p.InStock)
	assert.Nil(t, p.Description)

	w, body = f.do(t, http.MethodPut, "/api/products/"+id.Hex(), "admin-token", gin.H{"title": "Lamp XL", "price": 20, "category": "Home", "in_stock": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["updated"])
	p, _ = f.products.Get(id)
	assert.Equal(t, "Lamp XL", p.Title)
	assert.False(t, p.InStock)

	w, body = f.do(t, http.MethodDelete, "/api/products/"+id.Hex(), "admin-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["deleted"])

	w, body = f.do(t, http.MethodDelete, "/api/products/"+id.Hex(), "admin-token", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", body["error"])
}

func TestProductWritesRequireAdmin(t *testing.T) {
	f := newFixture(t)
	f.putUser(t, "Ann", "user-token", false)
	payload := gin.H{"title": "Lamp", "price": 1, "category": "Home"}

	w, body := f.do(t, http.MethodPost, "/api/products", "", payload)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Admin only", body["error"])

	w, _ = f.do(t, http.MethodPost, "/api/products", "user-token", payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = f.do(t, http.MethodDelete, "/api/products/"+primitive.NewObjectID().Hex(), "user-token", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	list, err := f.products.List(context.Background(), store.ProductListOptions{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProductIDAndPayloadValidation(t *testing.T) {
	f := newFixture(t)
	f.putUser(t, "Root", "admin-token", true)

	w, body := f.do(t, http.MethodPut, "/api/products/not-an-id", "admin-token", gin.H{"title": "x", "price": 1, "category": "c"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid product id", body["error"])

	w, _ = f.do(t, http.MethodDelete, "/api/products/123", "admin-token", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = f.do(t, http.MethodPost, "/api/products", "admin-token", gin.H{"title": "x", "price": -1, "category": "c"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["details"], "price must be at least 0")

	w, body = f.do(t, http.MethodPost, "/api/products", "admin-token", gin.H{"title": "x", "category": "c"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["details"], "price is required")

	w, _ = f.do(t, http.MethodPut, "/api/products/"+primitive.NewObjectID().Hex(), "admin-token", gin.H{"title": "x", "price": 0, "category": "c"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProductsSearchAndPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, p := range []models.Product{
		{Title: "Wireless Headphones", Category: "Electronics"},
		{Title: "Coffee Mug", Category: "Home"},
		{Title: "Desk Lamp", Category: "Home"},
	} {
		p := p
		require.NoError(t, f.products.Create(ctx, &p))
	}

	w, body := f.do(t, http.MethodGet, "/api/products?search=home", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["products"], 2)

	w, body = f.do(t, http.MethodGet, "/api/products?page=2&limit=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["products"], 1)

	w, body = f.do(t, http.MethodGet, "/api/products?page=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["products"], 3)

	w, body = f.do(t, http.MethodGet, "/api/products?page=0&limit=2", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid pagination params", body["error"])

	for _, query := range []string{
		"page=9223372036854775807&limit=2",
		"page=1&limit=101",
		"page=1&limit=abc",
		"page=99999999999999999999&limit=1",
	} {
		w, body = f.do(t, http.MethodGet, "/api/products?"+query, "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
		assert.Equal(t, "invalid pagination params", body["error"], query)
	}

	w, body = f.do(t, http.MethodGet, "/api/products?page=1&limit=100", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["products"], 3)

	w, body = f.do(t, http.MethodGet, "/api/products?search=nothing-matches", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, body["products"])
}

func TestGetProductsStoreFailureIsMasked(t *testing.T) {
	f := newFixture(t)
	f.products.Err = errors.New("connection refused")

	w, body := f.do(t, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", body["error"])
}

func TestCreateOrderComputesTotal(t *testing.T) {
	f := newFixture(t)

	w, body := f.do(t, http.MethodPost, "/api/orders", "", gin.H{
		"name":           "Guest",
		"address":        "1 Main St",
		"payment_method": "cod",
		"items": []gin.H{
			{"product_id": "p1", "title": "Mug", "price": 10, "quantity": 3},
			{"product_id": "p2", "title": "Lamp", "price": 2.5, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 35.0, body["total"])
	assert.NotEmpty(t, body["order_id"])

	all := f.orders.All()
	require.Len(t, all, 1)
	assert.Nil(t, all[0].UserID)
	assert.Equal(t, models.OrderStatusPending, all[0].Status)
	assert.Equal(t, 35.0, all[0].Total)
}

func TestCreateOrderAttachesCaller(t *testing.T) {
	f := newFixture(t)
	ann := f.putUser(t, "Ann", "user-token", false)

	w, _ := f.do(t, http.MethodPost, "/api/orders", "user-token", gin.H{
		"name": "Ann", "address": "x", "payment_method": "card",
		"items": []gin.H{{"price": 10, "quantity": 3}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	all := f.orders.All()
	require.Len(t, all, 1)
	require.NotNil(t, all[0].UserID)
	assert.Equal(t, ann.ID, *all[0].UserID)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t)
	base := func(items any) gin.H {
		return gin.H{"name": "G", "address": "A", "payment_method": "cod", "items": items}
	}

	w, _ := f.do(t, http.MethodPost, "/api/orders", "", base([]gin.H{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := f.do(t, http.MethodPost, "/api/orders", "", base([]gin.H{{"price": 1, "quantity": 0}}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["details"], "items[0].quantity is required")

	w, body = f.do(t, http.MethodPost, "/api/orders", "", base([]gin.H{{"price": -1, "quantity": 1}}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["details"], "items[0].price must be at least 0")

	assert.Empty(t, f.orders.All())
}

func TestCreateOrderRejectsOverflowingTotal(t *testing.T) {
	f := newFixture(t)
	f.putUser(t, "Root", "admin-token", true)

	w, body := f.do(t, http.MethodPost, "/api/orders", "", gin.H{
		"name": "G", "address": "A", "payment_method": "cod",
		"items": []gin.H{{"price": 1e308, "quantity": 10}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "order total out of range", body["error"])
	assert.Empty(t, f.orders.All())

	w, body = f.do(t, http.MethodGet, "/api/orders", "admin-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, body["orders"])
}

func TestGetOrdersScopedByOwner(t *testing.T) {
	f := newFixture(t)
	f.putUser(t, "Ann", "ann-token", false)
	f.putUser(t, "Bob", "bob-token", false)
	f.putUser(t, "Root", "admin-token", true)

	place := func(token, name string) {
		w, _ := f.do(t, http.MethodPost, "/api/orders", token, gin.H{
			"name": name, "address": "x", "payment_method": "cod",
			"items": []gin.H{{"price": 1, "quantity": 1}},
		})
		require.Equal(t, http.StatusOK, w.Code)
	}
	place("ann-token", "first")
	place("bob-token", "bob")
	place("", "guest")
	place("ann-token", "second")

	w, body := f.do(t, http.MethodGet, "/api/orders", "ann-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := body["orders"].([]any)
	require.Len(t, orders, 2)
	assert.Equal(t, "second", orders[0].(map[string]any)["name"])
	assert.Equal(t, "first", orders[1].(map[string]any)["name"])

	w, body = f.do(t, http.MethodGet, "/api/orders", "admin-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["orders"], 4)

	w, body = f.do(t, http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", body["error"])
}
