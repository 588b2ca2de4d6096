// internal/middleware/body_limit.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/nft-marketplace/internal/utils"
)

// BodyLimit caps request bodies at limit bytes. Declared oversize bodies are
// rejected up front; others fail when the handler reads past the limit.
// A non-positive limit disables the check.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > limit {
			utils.PayloadTooLargeResponse(c)
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
