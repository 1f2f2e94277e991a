package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"minishop/internal/models"
	"minishop/internal/store"
)

func GetProducts(products store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products"

		opts := store.ProductListOptions{Search: strings.TrimSpace(c.Query("search"))}

		pageStr, hasPage := c.GetQuery("page")
		limitStr, hasLimit := c.GetQuery("limit")
		if hasPage && hasLimit {
			page, limit, err := parsePaginationParams(pageStr, limitStr)
			if err != nil {
				respondError(c, route, err)
				return
			}
			opts.Page, opts.Limit = page, limit
		}

		items, err := products.List(c.Request.Context(), opts)
		if err != nil {
			respondError(c, route, err)
			return
		}
		if items == nil {
			items = []models.Product{}
		}

		c.JSON(http.StatusOK, gin.H{"products": items})
	}
}
