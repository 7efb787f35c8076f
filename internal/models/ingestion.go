package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// SourceTypeUpload is the source type sent with file uploads.
const SourceTypeUpload = "Upload"

// UploadResult is the backend's response to a file upload.
type UploadResult struct {
	Status         string          `json:"status"`
	SourceID       int64           `json:"source_id"`
	TransactionID  *int64          `json:"transaction_id"`
	OCRConfidence  float64         `json:"ocr_confidence"`
	ParsedData     json.RawMessage `json:"parsed_data,omitempty"`
	Classification json.RawMessage `json:"classification,omitempty"`
	Message        string          `json:"message"`
}

// AvatarResult is the backend's response to an avatar upload.
type AvatarResult struct {
	AvatarURL string `json:"avatar_url"`
}

// GmailStatus reports whether Gmail ingestion is connected.
type GmailStatus struct {
	Connected      bool   `json:"connected"`
	ConsentEnabled bool   `json:"consent_enabled"`
	Message        string `json:"message"`
}

// GmailConnectResult carries the OAuth URL to complete a Gmail connection.
type GmailConnectResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	OAuthURL string `json:"oauth_url"`
}

// SyncResult is the outcome of a Gmail sync.
type SyncResult struct {
	Success bool   `json:"success"`
	Fetched int    `json:"fetched"`
	Saved   int    `json:"saved"`
	Message string `json:"message"`
}

// ManualConsumerEntry logs a personal transaction by hand.
type ManualConsumerEntry struct {
	Amount        decimal.Decimal `json:"amount" binding:"gt=0"`
	PaidTo        string          `json:"paid_to" binding:"required,max=200"`
	Purpose       string          `json:"purpose" binding:"required,max=500"`
	Date          Time            `json:"date" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"required,consumer_payment_method"`
	Category      string          `json:"category,omitempty" binding:"max=100"`
	ReceiptNumber string          `json:"receipt_number,omitempty" binding:"max=100"`
}

// ManualBusinessEntry logs a business transaction by hand.
type ManualBusinessEntry struct {
	Amount          decimal.Decimal  `json:"amount" binding:"gt=0"`
	PartyName       string           `json:"party_name" binding:"required,max=200"`
	TransactionType string           `json:"transaction_type" binding:"required,business_transaction_type"`
	Purpose         string           `json:"purpose" binding:"required,max=500"`
	Date            Time             `json:"date" binding:"required"`
	PaymentMethod   string           `json:"payment_method" binding:"required,business_payment_method"`
	Category        string           `json:"category,omitempty" binding:"max=100"`
	InvoiceNumber   string           `json:"invoice_number,omitempty" binding:"max=100"`
	GSTAmount       *decimal.Decimal `json:"gst_amount,omitempty" binding:"omitempty,gte=0"`
	PaymentTerms    string           `json:"payment_terms,omitempty" binding:"max=100"`
	ReferenceNumber string           `json:"reference_number,omitempty" binding:"max=100"`
}

// ManualEntryResult is the backend's response to a manual entry.
type ManualEntryResult struct {
	Success     bool        `json:"success"`
	Transaction Transaction `json:"transaction"`
	Message     string      `json:"message"`
}

// Health is the backend's health document.
type Health struct {
	Status      string `json:"status"`
	Timestamp   Time   `json:"timestamp"`
	Version     string `json:"version,omitempty"`
	Environment string `json:"environment,omitempty"`
}
