// Package client provides a typed HTTP client for the Lumen backend API.
// Every method returns (T, error) and every error it returns is an
// *errors.AppError carrying a message fit for the user.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "lumen/internal/errors"
	"lumen/internal/logger"
)

// DefaultTimeout bounds a single request when no client is supplied.
const DefaultTimeout = 30 * time.Second

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	Token() (string, bool)
}

// Client communicates with the Lumen backend.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// New creates a client for baseURL. A nil httpClient gets one with DefaultTimeout.
func New(baseURL string, tokens TokenSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: httpClient,
	}
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call describes one backend request.
type call struct {
	method   string
	path     string
	query    url.Values
	body     any
	upload   *upload
	public   bool
	fallback string
}

// upload is a multipart body: one file part plus plain fields.
type upload struct {
	field    string
	filename string
	content  io.Reader
	fields   map[string]string
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Get().Debugw("backend request failed", "method", cl.method, "path", cl.path, "error", err)
		return apperrors.Wrap(apperrors.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Get().Debugw("backend returned error", "method", cl.method, "path", cl.path, "status", resp.StatusCode)
		return apperrors.FromStatus(resp.StatusCode, errorMessage(body, cl.fallback))
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.Wrap(apperrors.ErrDecode, fmt.Errorf("decoding %s %s: %w", cl.method, cl.path, err))
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case cl.upload != nil:
		buf, ct, err := encodeMultipart(cl.upload)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err)
		}
		body, contentType = buf, ct
	case cl.body != nil:
		raw, err := json.Marshal(cl.body)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Errorf("marshaling request: %w", err))
		}
		body, contentType = bytes.NewReader(raw), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if !cl.public {
		token, ok := c.token()
		if !ok {
			return nil, apperrors.ErrNotAuthenticated
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) token() (string, bool) {
	if c.tokens == nil {
		return "", false
	}
	return c.tokens.Token()
}

func encodeMultipart(u *upload) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile(u.field, u.filename)
	if err != nil {
		return nil, "", fmt.Errorf("creating file part: %w", err)
	}
	if _, err := io.Copy(part, u.content); err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", u.filename, err)
	}
	for k, v := range u.fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

// errorMessage extracts the server's explanation from an error body: detail
// first, then error, then message. Validation errors arrive as a list.
func errorMessage(body []byte, fallback string) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if fallback == "" {
		fallback = apperrors.ErrUnexpectedStatus.Message
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}
	if msg := rawMessage(payload.Detail); msg != "" {
		return msg
	}
	if msg := rawMessage(payload.Error); msg != "" {
		return msg
	}
	if payload.Message != "" {
		return payload.Message
	}
	return fallback
}

func rawMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, item := range list {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Message
	}
	return ""
}

// Result is the {success, data, error} shape rendered by the local web app.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// NewResult folds a (value, error) pair into a Result.
func NewResult[T any](v T, err error) Result[T] {
	if err == nil {
		return Result[T]{Success: true, Data: v}
	}
	r := Result[T]{Error: apperrors.Message(err)}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		r.Code = appErr.Code
	}
	return r
}
