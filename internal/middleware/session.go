package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "lumen/internal/errors"
	"lumen/internal/models"
)

// SessionKey is the gin context key holding the models.Session of a guarded request.
const SessionKey = "session"

// AuthPath is where unauthenticated visitors are sent.
const AuthPath = "/auth"

// SessionSource reports the current session.
type SessionSource interface {
	IsAuthenticated() bool
	Snapshot() models.Session
}

// RequireSession guards a route group. Browsers without a session are
// redirected to /auth; JSON clients get a 401.
func RequireSession(sessions SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.IsAuthenticated() {
			if wantsJSON(c) {
				_ = c.Error(apperrors.ErrNotAuthenticated)
				c.Abort()
				return
			}
			target := AuthPath
			if c.Request.Method == http.MethodGet {
				target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			}
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Set(SessionKey, sessions.Snapshot())
		c.Next()
	}
}

// CurrentSession returns the session stored by RequireSession.
func CurrentSession(c *gin.Context) (models.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return models.Session{}, false
	}
	s, ok := v.(models.Session)
	return s, ok
}

func wantsJSON(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	return strings.HasPrefix(c.ContentType(), "application/json")
}
