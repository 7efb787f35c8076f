package services

import (
	"context"
	"strings"
	"sync"

	apperrors "lumen/internal/errors"
	"lumen/internal/models"
	"lumen/internal/validator"
)

// DefaultHistoryLimit is how many messages History fetches by default.
const DefaultHistoryLimit = 50

// ChatService keeps one assistant conversation open.
type ChatService struct {
	api ChatAPI

	mu        sync.Mutex
	sessionID int64
}

// NewChatService creates a ChatService with no open conversation.
func NewChatService(api ChatAPI) *ChatService {
	return &ChatService{api: api}
}

// Send asks a question, starting a conversation first if none is open.
func (s *ChatService) Send(ctx context.Context, message string) (*models.ChatReply, error) {
	req := models.ChatRequest{Message: strings.TrimSpace(message)}
	if err := validator.Validate(&req); err != nil {
		return nil, err
	}

	sid, err := s.ensureSession(ctx)
	if err != nil {
		return nil, err
	}
	req.SessionID = &sid

	reply, err := s.api.SendMessage(ctx, req)
	if err != nil {
		return nil, err
	}
	if reply.SessionID != 0 {
		s.mu.Lock()
		s.sessionID = reply.SessionID
		s.mu.Unlock()
	}
	return reply, nil
}

// History returns the messages of the open conversation, or of sessionID
// when it is non-zero.
func (s *ChatService) History(ctx context.Context, sessionID int64, limit int) (*models.ChatHistory, error) {
	if sessionID == 0 {
		sessionID = s.SessionID()
	}
	if sessionID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrNotFound, "No chat session has been started")
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.api.ChatHistory(ctx, sessionID, limit)
}

// SessionID returns the open conversation, or 0.
func (s *ChatService) SessionID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Use switches to an existing conversation.
func (s *ChatService) Use(sessionID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = sessionID
}

// Reset forgets the open conversation.
func (s *ChatService) Reset() { s.Use(0) }

func (s *ChatService) ensureSession(ctx context.Context) (int64, error) {
	if sid := s.SessionID(); sid != 0 {
		return sid, nil
	}
	sess, err := s.api.CreateChatSession(ctx)
	if err != nil {
		return 0, err
	}
	s.Use(sess.SessionID)
	return sess.SessionID, nil
}
