package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"lumen/internal/client"
	apperrors "lumen/internal/errors"
	"lumen/internal/logger"
)

// parsePathID parses an int64 path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
func parsePathID(c *gin.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// queryInt reads a positive integer query parameter, falling back to def.
func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+key)
	}
	return n, nil
}

// queryIntMax is queryInt bounded above by limit.
func queryIntMax(c *gin.Context, key string, def, limit int) (int, error) {
	n, err := queryInt(c, key, def)
	if err != nil {
		return 0, err
	}
	if n > limit {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("%s must be at most %d", key, limit))
	}
	return n, nil
}

// bindJSON decodes the request body into dst. Validation is left to the
// services so every caller reports the same messages. An empty body leaves
// dst untouched.
func bindJSON(c *gin.Context, dst any) error {
	err := json.NewDecoder(c.Request.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperrors.WithMessage(apperrors.ErrInvalidInput, "Malformed JSON body")
}

// respond writes v or err in the {success, data, error, code} shape.
func respond[T any](c *gin.Context, status int, v T, err error) {
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(status, client.NewResult(v, nil))
}

// respondWithError writes a consistent JSON error response. AppErrors keep
// their status and message; anything else is logged and answered generically.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
	} else {
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
	}
	c.JSON(apperrors.Status(err), client.NewResult[any](nil, err))
}

// prefersHTML reports whether the caller is a browser navigating rather
// than a script asking for JSON.
func prefersHTML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}

// safeNext keeps post-login redirects on this server.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/dashboard"
	}
	return next
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
