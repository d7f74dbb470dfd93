package middleware

import (
	"net/http"
	"strings"

	domain "course-portal/internal/domain/registration"

	"github.com/gin-gonic/gin"
)

const ContextTokenKey = "token"

// BearerAuth only requires an "Authorization: Bearer <token>" header. Tokens
// are opaque and are not verified.
func BearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if !strings.HasPrefix(header, "Bearer ") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": domain.MsgUnauthorized,
				"code":  domain.KindUnauthorized,
			})
			return
		}

		c.Set(ContextTokenKey, token)
		c.Next()
	}
}
