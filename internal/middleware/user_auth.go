package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"minishop/internal/auth"
	"minishop/internal/logger"
)

const identityKey = "identity"

// Resolver maps a bearer token to an identity.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*auth.Identity, error)
}

// Authenticate resolves the caller from the Authorization header. A missing,
// malformed or unknown token leaves the request anonymous; only a store
// failure stops it.
func Authenticate(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}

		id, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			logger.For(c.Request.Context(), "auth").Error("token lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if id != nil {
			c.Set(identityKey, id)
		}
		c.Next()
	}
}

// IdentityFrom returns the authenticated caller, or nil when anonymous.
func IdentityFrom(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*auth.Identity)
	return id
}
