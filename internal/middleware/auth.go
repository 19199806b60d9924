// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aryanmiramini/shopyar-backend/internal/i18n"
	"github.com/aryanmiramini/shopyar-backend/internal/models"
	"github.com/aryanmiramini/shopyar-backend/internal/utils"
)

func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithCode(c, http.StatusUnauthorized, i18n.CodeUnauthorized)
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWithCode(c, http.StatusUnauthorized, i18n.CodeInvalidToken)
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			abortWithCode(c, http.StatusUnauthorized, i18n.CodeTokenExpired)
			return
		}

		// Set user info in context
		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Set("user_contact", claims.Contact)
		c.Next()
	}
}

func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists || role != string(models.UserRoleAdmin) {
			abortWithCode(c, http.StatusForbidden, i18n.CodeForbidden)
			return
		}
		c.Next()
	}
}

func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			c.Next()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Set("user_contact", claims.Contact)
		c.Next()
	}
}

func abortWithCode(c *gin.Context, status int, code string) {
	en, fa := i18n.Pair(code)
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":       code,
			"message":    en,
			"message_fa": fa,
		},
	})
	c.Abort()
}
