package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"lumen/internal/models"
)

// UploadFile sends a receipt, invoice or statement for OCR ingestion.
func (c *Client) UploadFile(ctx context.Context, filename string, r io.Reader) (*models.UploadResult, error) {
	var res models.UploadResult
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/v1/ingest/upload",
		upload: &upload{
			field:    "file",
			filename: filename,
			content:  r,
			fields:   map[string]string{"source_type": models.SourceTypeUpload},
		},
		fallback: "Upload failed",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GmailStatus reports whether Gmail ingestion is connected.
func (c *Client) GmailStatus(ctx context.Context) (*models.GmailStatus, error) {
	var s models.GmailStatus
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/api/v1/ingest/gmail/status",
		fallback: "Failed to fetch Gmail status",
	}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GmailConnect begins the Gmail OAuth flow.
func (c *Client) GmailConnect(ctx context.Context) (*models.GmailConnectResult, error) {
	var res models.GmailConnectResult
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/api/v1/ingest/gmail/connect",
		fallback: "Failed to connect Gmail",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GmailSync imports the last daysBack days of email receipts.
func (c *Client) GmailSync(ctx context.Context, daysBack int) (*models.SyncResult, error) {
	q := url.Values{}
	if daysBack > 0 {
		q.Set("days_back", strconv.Itoa(daysBack))
	}

	var res models.SyncResult
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/api/v1/ingest/gmail/sync",
		query:    q,
		fallback: "Gmail sync failed",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ManualConsumer records a personal transaction entered by hand.
func (c *Client) ManualConsumer(ctx context.Context, entry models.ManualConsumerEntry) (*models.ManualEntryResult, error) {
	var res models.ManualEntryResult
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/api/v1/ingest/manual/consumer",
		body:     entry,
		fallback: "Failed to save transaction",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ManualBusiness records a business transaction entered by hand.
func (c *Client) ManualBusiness(ctx context.Context, entry models.ManualBusinessEntry) (*models.ManualEntryResult, error) {
	var res models.ManualEntryResult
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/api/v1/ingest/manual/business",
		body:     entry,
		fallback: "Failed to save transaction",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
