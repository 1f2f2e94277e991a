package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"minishop/internal/auth"
	"minishop/internal/middleware"
)

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Signup(accounts *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/signup"

		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		userID, err := accounts.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Signup successful", "user_id": userID})
	}
}

func Login(accounts *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/login"

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		result, err := accounts.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":    result.Token,
			"name":     result.Name,
			"is_admin": result.IsAdmin,
		})
	}
}

// Me echoes the caller resolved by the auth middleware.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := middleware.IdentityFrom(c)
		if id == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"name":     id.Name,
			"email":    id.Email,
			"is_admin": id.IsAdmin,
		})
	}
}
