package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "lumen/internal/errors"
	"lumen/internal/logger"
)

// ErrorHandler returns a Gin middleware that renders errors set on the Gin
// context as {success: false, error, code}. AppErrors keep their status and
// message; unexpected errors are logged and answered with a generic message.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				logger.Get().Errorw("app error",
					"code", appErr.Code,
					"message", appErr.Message,
					"internal", appErr.Internal.Error(),
					"path", c.Request.URL.Path,
				)
			}
			c.JSON(apperrors.Status(appErr), gin.H{
				"success": false,
				"error":   appErr.Message,
				"code":    appErr.Code,
			})
			return
		}

		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   apperrors.ErrInternal.Message,
			"code":    apperrors.ErrInternal.Code,
		})
	}
}
