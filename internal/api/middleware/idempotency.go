package middleware

import (
	"net/http"

	domain "course-portal/internal/domain/registration"

	"github.com/gin-gonic/gin"
)

const (
	IdempotencyHeader     = "Idempotency-Key"
	idempotencyContextKey = "idempotency_key"
	maxIdempotencyKeyLen  = 255
)

func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		idempotencyKey := c.GetHeader(IdempotencyHeader)
		if len(idempotencyKey) > maxIdempotencyKeyLen {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "Idempotency-Key is too long",
				"code":  domain.KindValidation,
			})
			return
		}
		c.Set(idempotencyContextKey, idempotencyKey)
		c.Next()
	}
}

// GetIdempotencyKey returns the key captured by IdempotencyMiddleware, or "".
func GetIdempotencyKey(c *gin.Context) string {
	return c.GetString(idempotencyContextKey)
}
