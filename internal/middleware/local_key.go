package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "lumen/internal/errors"
)

// LocalKeyHeader carries the key that unlocks the local server.
const LocalKeyHeader = "X-Lumen-Key"

// LocalKey requires every request to present key in the X-Lumen-Key header
// or the key query parameter. An empty key disables the check.
func LocalKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		got := c.GetHeader(LocalKeyHeader)
		if got == "" {
			got = c.Query("key")
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			_ = c.Error(apperrors.WithMessage(apperrors.ErrForbidden, "Invalid or missing local key"))
			c.Abort()
			return
		}
		c.Next()
	}
}
