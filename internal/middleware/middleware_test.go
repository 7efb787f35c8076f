package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "lumen/internal/errors"
	"lumen/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSessions struct {
	authenticated bool
}

func (f fakeSessions) IsAuthenticated() bool { return f.authenticated }

func (f fakeSessions) Snapshot() models.Session {
	return models.Session{UserID: "7", IsAuthenticated: f.authenticated}
}

func guardedRouter(sessions SessionSource) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler())
	g := r.Group("", RequireSession(sessions))
	g.GET("/dashboard", func(c *gin.Context) {
		s, _ := CurrentSession(c)
		c.String(http.StatusOK, "user "+s.UserID)
	})
	return r
}

func TestRequireSession_RedirectsBrowsers(t *testing.T) {
	r := guardedRouter(fakeSessions{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard?tab=recent", nil))

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/auth?next=%2Fdashboard%3Ftab%3Drecent" {
		t.Errorf("unexpected redirect %q", loc)
	}
}

func TestRequireSession_JSONClientsGet401(t *testing.T) {
	r := guardedRouter(fakeSessions{})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["success"] != false || body["code"] != apperrors.ErrNotAuthenticated.Code {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestRequireSession_AllowsAuthenticated(t *testing.T) {
	r := guardedRouter(fakeSessions{authenticated: true})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if w.Code != http.StatusOK || w.Body.String() != "user 7" {
		t.Errorf("unexpected response %d %q", w.Code, w.Body.String())
	}
}

func TestLocalKey(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(), LocalKey("s3cret"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"missing", "", "", http.StatusForbidden},
		{"wrong", "nope", "", http.StatusForbidden},
		{"header", "s3cret", "", http.StatusNoContent},
		{"query", "", "?key=s3cret", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set(LocalKeyHeader, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestLocalKey_EmptyDisables(t *testing.T) {
	r := gin.New()
	r.Use(LocalKey(""))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) { _ = c.Error(apperrors.FromStatus(404, "Transaction not found")) })
	r.GET("/plain", func(c *gin.Context) { _ = c.Error(errors.New("db exploded")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != "Transaction not found" {
		t.Errorf("unexpected body %v", body)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plain", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != apperrors.ErrInternal.Message {
		t.Errorf("internal details leaked: %v", body)
	}
}

func TestRequestLogging_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected request id header")
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("X-Request-ID") != "abc" {
		t.Error("expected incoming request id to be kept")
	}
}
