package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"minishop/internal/apperror"
	"minishop/internal/models"
	"minishop/internal/store"
)

type productRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"required,min=0"`
	Category    string   `json:"category" binding:"required"`
	Image       *string  `json:"image"`
	InStock     *bool    `json:"in_stock"`
}

func (r productRequest) fields() models.ProductFields {
	inStock := true
	if r.InStock != nil {
		inStock = *r.InStock
	}
	return models.ProductFields{
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Price:       *r.Price,
		Category:    strings.TrimSpace(r.Category),
		Image:       r.Image,
		InStock:     inStock,
	}
}

func productNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound("Product not found")
	}
	return err
}

func CreateProduct(products store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products"

		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		f := req.fields()
		product := &models.Product{
			Title:       f.Title,
			Description: f.Description,
			Price:       f.Price,
			Category:    f.Category,
			Image:       f.Image,
			InStock:     f.InStock,
		}
		if err := products.Create(c.Request.Context(), product); err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"product_id": product.ID.Hex()})
	}
}

func UpdateProduct(products store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/products/:id"

		id, err := parseObjectID(c.Param("id"), "Invalid product id")
		if err != nil {
			respondError(c, route, err)
			return
		}

		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if err := products.Update(c.Request.Context(), id, req.fields()); err != nil {
			respondError(c, route, productNotFound(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"updated": true})
	}
}

func DeleteProduct(products store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/products/:id"

		id, err := parseObjectID(c.Param("id"), "Invalid product id")
		if err != nil {
			respondError(c, route, err)
			return
		}

		if err := products.Delete(c.Request.Context(), id); err != nil {
			respondError(c, route, productNotFound(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
