package client

import (
	"context"
	"net/http"

	"lumen/internal/models"
)

// Me fetches the signed-in user's profile.
func (c *Client) Me(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/v1/users/me", fallback: "Failed to fetch user"}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile applies a partial profile update.
func (c *Client) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error) {
	var p models.Profile
	err := c.do(ctx, call{
		method:   http.MethodPatch,
		path:     "/api/v1/users/me",
		body:     update,
		fallback: "Failed to update profile",
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateConsent changes the data ingestion consents.
func (c *Client) UpdateConsent(ctx context.Context, update models.ConsentUpdate) (*models.Profile, error) {
	var p models.Profile
	err := c.do(ctx, call{
		method:   http.MethodPatch,
		path:     "/api/v1/users/me/consent",
		body:     update,
		fallback: "Failed to update consent",
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
