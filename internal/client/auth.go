package client

import (
	"context"
	"io"
	"net/http"

	"lumen/internal/models"
)

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.Token, error) {
	var tok models.Token
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/api/v1/auth/login",
		body:     req,
		public:   true,
		fallback: "Login failed",
	}, &tok)
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

// Register creates an account and returns its access token.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.Token, error) {
	var tok models.Token
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/api/v1/auth/register",
		body:     req,
		public:   true,
		fallback: "Registration failed",
	}, &tok)
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

// Logout ends the session on the backend.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/api/v1/auth/logout",
		fallback: "Logout failed",
	}, nil)
}

// UploadAvatar stores a profile picture ahead of registration.
func (c *Client) UploadAvatar(ctx context.Context, filename string, r io.Reader) (*models.AvatarResult, error) {
	var res models.AvatarResult
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/api/v1/users/upload-avatar",
		upload:   &upload{field: "file", filename: filename, content: r},
		public:   true,
		fallback: "Failed to upload avatar",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Health reports backend liveness.
func (c *Client) Health(ctx context.Context) (*models.Health, error) {
	var h models.Health
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/health",
		public:   true,
		fallback: "Backend is unavailable",
	}, &h)
	if err != nil {
		return nil, err
	}
	return &h, nil
}
