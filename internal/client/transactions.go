package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"lumen/internal/models"
)

// ListTransactions fetches a page of transactions.
func (c *Client) ListTransactions(ctx context.Context, params models.ListParams) (*models.TransactionPage, error) {
	q := url.Values{}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.FlaggedOnly {
		q.Set("flagged_only", "true")
	}

	var page models.TransactionPage
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/api/v1/transactions/",
		query:    q,
		fallback: "Failed to fetch transactions",
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetTransaction fetches one transaction.
func (c *Client) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	var tx models.Transaction
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/api/v1/transactions/%d", id),
		fallback: "Failed to fetch transaction",
	}, &tx)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// Stats summarises the last days of activity.
func (c *Client) Stats(ctx context.Context, days int) (*models.Stats, error) {
	q := url.Values{}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}

	var s models.Stats
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/api/v1/transactions/stats",
		query:    q,
		fallback: "Failed to fetch statistics",
	}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ConfirmTransaction confirms or rejects a flagged transaction.
func (c *Client) ConfirmTransaction(ctx context.Context, id int64, conf models.Confirmation) (*models.ConfirmResult, error) {
	var res models.ConfirmResult
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     fmt.Sprintf("/api/v1/transactions/%d/confirm", id),
		body:     conf,
		fallback: "Failed to update transaction",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Flagged fetches transactions the anomaly detector flagged.
func (c *Client) Flagged(ctx context.Context, params models.FlaggedParams) (*models.FlaggedPage, error) {
	q := url.Values{}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}
	q.Set("unconfirmed_only", strconv.FormatBool(params.UnconfirmedOnly))

	var page models.FlaggedPage
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/api/v1/anomalies/flagged",
		query:    q,
		fallback: "Failed to fetch flagged transactions",
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Explain asks why a transaction was flagged.
func (c *Client) Explain(ctx context.Context, id int64) (*models.Explanation, error) {
	var e models.Explanation
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/api/v1/anomalies/%d/explain", id),
		fallback: "Failed to explain anomaly",
	}, &e)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
