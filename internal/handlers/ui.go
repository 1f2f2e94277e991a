package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

func Home() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Mini E-Commerce Backend running"})
	}
}

// StoreInfo is the read-only view of the document store used by Diagnostics.
type StoreInfo interface {
	Name() string
	CollectionNames(ctx context.Context) ([]string, error)
}

// DiagnosticEnv records which connection settings came from the environment.
type DiagnosticEnv struct {
	DatabaseURLSet  bool
	DatabaseNameSet bool
}

const (
	maxListedCollections = 10
	maxErrorLength       = 50
)

// truncate keeps the first max characters of s.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func setLabel(set bool) string {
	if set {
		return "✅ Set"
	}
	return "❌ Not Set"
}

// Diagnostics reports backend and document store connectivity. Store errors
// are described in the body; the endpoint itself always answers 200.
func Diagnostics(info StoreInfo, env DiagnosticEnv) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := gin.H{
			"backend":           "✅ Running",
			"database":          "❌ Not Available",
			"database_url":      nil,
			"database_name":     nil,
			"connection_status": "Not Connected",
			"collections":       []string{},
		}

		if info == nil {
			response["database"] = "⚠️ Available but not initialized"
		} else {
			response["database"] = "✅ Available"
			response["database_name"] = info.Name()
			response["connection_status"] = "Connected"

			collections, err := info.CollectionNames(c.Request.Context())
			if err != nil {
				response["database"] = "⚠️ Connected but Error: " + truncate(err.Error(), maxErrorLength)
			} else {
				if len(collections) > maxListedCollections {
					collections = collections[:maxListedCollections]
				}
				response["collections"] = collections
				response["database"] = "✅ Connected & Working"
			}
		}

		response["database_url"] = setLabel(env.DatabaseURLSet)
		response["database_name"] = setLabel(env.DatabaseNameSet)
		c.JSON(http.StatusOK, response)
	}
}
