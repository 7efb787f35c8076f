package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "lumen/internal/errors"
	"lumen/internal/models"
)

type staticTokens string

func (s staticTokens) Token() (string, bool) { return string(s), s != "" }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL+"/", staticTokens("test-token"), server.Client())
}

func TestLogin_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/v1/auth/login" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not send a bearer token")
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}

		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "asha@example.com" || body["password"] != "pw" || body["user_type"] != "consumer" {
			t.Errorf("unexpected body: %v", body)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "jwt", "token_type": "bearer", "user_id": 42, "user_type": "consumer",
		})
	})

	tok, err := c.Login(context.Background(), models.LoginRequest{Email: "asha@example.com", Password: "pw", UserType: models.UserTypeConsumer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.AccessToken != "jwt" || tok.UserID != "42" {
		t.Errorf("unexpected token: %+v", tok)
	}
}

func TestLogin_ErrorDetailSurfaced(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Incorrect email or password"}`))
	})

	_, err := c.Login(context.Background(), models.LoginRequest{Email: "a@b.co", Password: "x", UserType: models.UserTypeConsumer})
	if !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err.Error() != "Incorrect email or password" {
		t.Errorf("expected server detail, got %q", err.Error())
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail string", `{"detail":"Email already registered"}`, "Email already registered"},
		{"validation list", `{"detail":[{"loc":["body","email"],"msg":"value is not a valid email"},{"msg":"field required"}]}`, "value is not a valid email; field required"},
		{"error string", `{"error":"rate limited"}`, "rate limited"},
		{"error object", `{"error":{"code":"X","message":"broken"}}`, "broken"},
		{"message", `{"message":"maintenance"}`, "maintenance"},
		{"detail wins", `{"detail":"first","error":"second"}`, "first"},
		{"html", `<html>Bad Gateway</html>`, "fallback"},
		{"empty", ``, "fallback"},
		{"empty detail list", `{"detail":[]}`, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorMessage([]byte(tt.body), "fallback"); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDo_NonSuccessNeverPanics(t *testing.T) {
	for _, status := range []int{400, 401, 403, 404, 409, 418, 422, 500, 502, 503} {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("not json"))
		})

		_, err := c.Me(context.Background())
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			t.Fatalf("status %d: expected AppError, got %T", status, err)
		}
		if appErr.StatusCode != status {
			t.Errorf("status %d: expected status to be kept, got %d", status, appErr.StatusCode)
		}
		if appErr.Message != "Failed to fetch user" {
			t.Errorf("status %d: expected fallback message, got %q", status, appErr.Message)
		}
	}
}

func TestDo_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	c := New(url, staticTokens("tok"), nil)
	_, err := c.Stats(context.Background(), 30)
	if !errors.Is(err, apperrors.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if err.Error() != "Network error. Please check your connection." {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestDo_DecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"transactions": "nope"}`))
	})

	_, err := c.ListTransactions(context.Background(), models.ListParams{})
	if !errors.Is(err, apperrors.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestDo_RequiresToken(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	defer server.Close()

	c := New(server.URL, staticTokens(""), server.Client())
	_, err := c.Me(context.Background())
	if !errors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if called {
		t.Error("request must not be sent without a token")
	}
}

func TestListTransactions_QueryAndAuth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/transactions/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		q := r.URL.Query()
		if q.Get("limit") != "100" || q.Get("flagged_only") != "true" || q.Has("offset") {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"transactions":[{"id":1,"amount":99.5,"date":"2025-11-01T08:00:00","flagged":true}],"total":1,"limit":100,"offset":0}`))
	})

	page, err := c.ListTransactions(context.Background(), models.ListParams{Limit: 100, FlaggedOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 || len(page.Transactions) != 1 || page.Transactions[0].Amount.String() != "99.5" {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestConfirmTransaction(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/transactions/7/confirm" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["confirmed"] != false || body["notes"] != "not mine" {
			t.Errorf("unexpected body: %v", body)
		}
		_, _ = w.Write([]byte(`{"success":true,"transaction_id":7,"confirmed":false,"flagged":true,"message":"Transaction rejected"}`))
	})

	res, err := c.ConfirmTransaction(context.Background(), 7, models.Confirmation{Confirmed: false, Notes: "not mine"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success || res.TransactionID != 7 || res.Message != "Transaction rejected" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestFlagged_SendsUnconfirmedOnly(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("unconfirmed_only") != "true" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"flagged_transactions":[{"id":3,"flagged":true,"confirmed":null}],"total":1,"pending_review":1}`))
	})

	page, err := c.Flagged(context.Background(), models.FlaggedParams{UnconfirmedOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.PendingReview != 1 || !page.Transactions[0].Pending() {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestUploadFile_Multipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("expected multipart body, got %q", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Error("upload requires the bearer token")
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing multipart: %v", err)
			return
		}
		if r.FormValue("source_type") != "Upload" {
			t.Errorf("expected source_type Upload, got %q", r.FormValue("source_type"))
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
			return
		}
		data, _ := io.ReadAll(f)
		if hdr.Filename != "bill.png" || string(data) != "png-bytes" {
			t.Errorf("unexpected file %q: %q", hdr.Filename, data)
		}
		_, _ = w.Write([]byte(`{"status":"success","source_id":5,"transaction_id":12,"ocr_confidence":0.93,"message":"File processed successfully"}`))
	})

	res, err := c.UploadFile(context.Background(), "bill.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TransactionID == nil || *res.TransactionID != 12 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestUploadAvatar_IsPublic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("avatar upload must not send a bearer token")
		}
		_, _ = w.Write([]byte(`{"avatar_url":"/static/avatars/a.png"}`))
	}))
	defer server.Close()

	c := New(server.URL, nil, server.Client())
	res, err := c.UploadAvatar(context.Background(), "a.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AvatarURL != "/static/avatars/a.png" {
		t.Errorf("unexpected url %q", res.AvatarURL)
	}
}

func TestChat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/chat/session":
			_, _ = w.Write([]byte(`{"session_id":9,"started_at":"2025-11-14T10:00:00"}`))
		case "/api/v1/chat/message":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["session_id"] != float64(9) {
				t.Errorf("expected session 9, got %v", body["session_id"])
			}
			_, _ = w.Write([]byte(`{"session_id":9,"response":"You spent 1200 on food.","intent":"aggregate_query","confidence":0.8,"provenance":{"transaction_ids":[1,2]},"retrieved_docs":2}`))
		case "/api/v1/chat/session/9/history":
			if r.URL.Query().Get("limit") != "50" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			_, _ = w.Write([]byte(`{"session_id":9,"messages":[{"id":1,"role":"user","content":"hi","timestamp":"2025-11-14T10:00:01"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()

	sess, err := c.CreateChatSession(ctx)
	if err != nil || sess.SessionID != 9 {
		t.Fatalf("unexpected session %+v (%v)", sess, err)
	}
	reply, err := c.SendMessage(ctx, models.ChatRequest{Message: "food?", SessionID: &sess.SessionID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Provenance == nil || len(reply.Provenance.TransactionIDs) != 2 {
		t.Errorf("unexpected reply: %+v", reply)
	}
	hist, err := c.ChatHistory(ctx, 9, 50)
	if err != nil || len(hist.Messages) != 1 {
		t.Fatalf("unexpected history %+v (%v)", hist, err)
	}
}

func TestGmailSync(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Query().Get("days_back") != "7" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.String())
		}
		_, _ = w.Write([]byte(`{"success":true,"fetched":4,"saved":3,"message":"Synced 3 transactions"}`))
	})

	res, err := c.GmailSync(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Saved != 3 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestLogout_EmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewResult(t *testing.T) {
	ok := NewResult(3, nil)
	if !ok.Success || ok.Data != 3 || ok.Error != "" {
		t.Errorf("unexpected success result: %+v", ok)
	}

	failed := NewResult[*models.Profile](nil, apperrors.FromStatus(404, "User not found"))
	if failed.Success || failed.Error != "User not found" || failed.Code != apperrors.ErrNotFound.Code {
		t.Errorf("unexpected failure result: %+v", failed)
	}

	plain := NewResult(0, errors.New("boom"))
	if plain.Error != apperrors.ErrInternal.Message {
		t.Errorf("expected generic message, got %q", plain.Error)
	}
}
