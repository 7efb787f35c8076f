package services

import (
	"context"
	"io"

	"lumen/internal/models"
)

// AuthAPI is the slice of the backend used for sign in and sign up.
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.Token, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.Token, error)
	Logout(ctx context.Context) error
	UploadAvatar(ctx context.Context, filename string, r io.Reader) (*models.AvatarResult, error)
}

// ProfileAPI is the slice of the backend that owns the user profile.
type ProfileAPI interface {
	Me(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error)
	UpdateConsent(ctx context.Context, update models.ConsentUpdate) (*models.Profile, error)
}

// TransactionAPI is the slice of the backend that serves transactions and anomalies.
type TransactionAPI interface {
	ListTransactions(ctx context.Context, params models.ListParams) (*models.TransactionPage, error)
	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	Stats(ctx context.Context, days int) (*models.Stats, error)
	ConfirmTransaction(ctx context.Context, id int64, conf models.Confirmation) (*models.ConfirmResult, error)
	Flagged(ctx context.Context, params models.FlaggedParams) (*models.FlaggedPage, error)
	Explain(ctx context.Context, id int64) (*models.Explanation, error)
}

// ChatAPI is the slice of the backend that runs the assistant.
type ChatAPI interface {
	CreateChatSession(ctx context.Context) (*models.ChatSession, error)
	SendMessage(ctx context.Context, req models.ChatRequest) (*models.ChatReply, error)
	ChatHistory(ctx context.Context, sessionID int64, limit int) (*models.ChatHistory, error)
}

// IngestAPI is the slice of the backend that accepts new data.
type IngestAPI interface {
	UploadFile(ctx context.Context, filename string, r io.Reader) (*models.UploadResult, error)
	GmailStatus(ctx context.Context) (*models.GmailStatus, error)
	GmailConnect(ctx context.Context) (*models.GmailConnectResult, error)
	GmailSync(ctx context.Context, daysBack int) (*models.SyncResult, error)
	ManualConsumer(ctx context.Context, entry models.ManualConsumerEntry) (*models.ManualEntryResult, error)
	ManualBusiness(ctx context.Context, entry models.ManualBusinessEntry) (*models.ManualEntryResult, error)
}

// Notifier surfaces outcomes to the user.
type Notifier interface {
	Success(message string) string
	Error(message string) string
	Info(message string) string
}
