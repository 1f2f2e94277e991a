package handlers

import (
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"minishop/internal/apperror"
	"minishop/internal/middleware"
	"minishop/internal/models"
	"minishop/internal/store"
)

type checkoutItemRequest struct {
	ProductID string   `json:"product_id"`
	Title     string   `json:"title"`
	Price     *float64 `json:"price" binding:"required,min=0"`
	Quantity  int      `json:"quantity" binding:"required,min=1"`
	Image     *string  `json:"image"`
}

type checkoutRequest struct {
	Name          string                `json:"name" binding:"required"`
	Address       string                `json:"address" binding:"required"`
	PaymentMethod string                `json:"payment_method" binding:"required"`
	Items         []checkoutItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrder records a checkout. Signed-in callers own the order; anonymous
// callers produce a guest order with a null user_id.
func CreateOrder(orders store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		items := make([]models.OrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			// TODO: price items from the catalog instead of trusting the client
			items = append(items, models.OrderItem{
				ProductID: strings.TrimSpace(item.ProductID),
				Title:     item.Title,
				Price:     *item.Price,
				Quantity:  item.Quantity,
				Image:     item.Image,
			})
		}

		total := models.OrderTotal(items)
		if math.IsInf(total, 0) || math.IsNaN(total) {
			respondError(c, route, apperror.Validation("order total out of range"))
			return
		}

		order := &models.Order{
			Name:          strings.TrimSpace(req.Name),
			Address:       strings.TrimSpace(req.Address),
			PaymentMethod: req.PaymentMethod,
			Items:         items,
			Total:         total,
			Status:        models.OrderStatusPending,
		}
		if id := middleware.IdentityFrom(c); id != nil {
			uid, err := parseObjectID(id.UserID, "invalid user id")
			if err != nil {
				respondError(c, route, err)
				return
			}
			order.UserID = &uid
		}

		if err := orders.Create(c.Request.Context(), order); err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"order_id": order.ID.Hex(), "total": order.Total})
	}
}

// GetOrders lists orders scoped by the guard's decision: admins see every
// order, everyone else only their own.
func GetOrders(orders store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"

		var filter store.OrderFilter
		d, ok := middleware.DecisionFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if d.OwnerID != "" {
			owner, err := parseObjectID(d.OwnerID, "invalid user id")
			if err != nil {
				respondError(c, route, err)
				return
			}
			filter.OwnerID = &owner
		}

		list, err := orders.List(c.Request.Context(), filter)
		if err != nil {
			respondError(c, route, err)
			return
		}
		if list == nil {
			list = []models.Order{}
		}

		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}
