package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"lumen/internal/models"
)

// CreateChatSession starts a conversation.
func (c *Client) CreateChatSession(ctx context.Context) (*models.ChatSession, error) {
	var s models.ChatSession
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/api/v1/chat/session",
		fallback: "Failed to start chat session",
	}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SendMessage asks the assistant a question.
func (c *Client) SendMessage(ctx context.Context, req models.ChatRequest) (*models.ChatReply, error) {
	var r models.ChatReply
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/api/v1/chat/message",
		body:     req,
		fallback: "Failed to send message",
	}, &r)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ChatHistory fetches up to limit messages of a session.
func (c *Client) ChatHistory(ctx context.Context, sessionID int64, limit int) (*models.ChatHistory, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var h models.ChatHistory
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/api/v1/chat/session/%d/history", sessionID),
		query:    q,
		fallback: "Failed to fetch chat history",
	}, &h)
	if err != nil {
		return nil, err
	}
	return &h, nil
}
