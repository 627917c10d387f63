package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shoplytics/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size. Shopify bulk
// backfills can carry large batches, so the limit is configurable rather than
// fixed.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(
				dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
			))
			return
		}

		// Wrap the body with a limited reader for streaming requests
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
