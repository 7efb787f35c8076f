package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Transaction is the client projection of a backend transaction.
type Transaction struct {
	ID             int64           `json:"id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Merchant       string          `json:"merchant_name_raw,omitempty"`
	Category       string          `json:"category,omitempty"`
	Date           Time            `json:"date"`
	Flagged        bool            `json:"flagged"`
	Confirmed      *bool           `json:"confirmed"`
	AnomalyScore   *float64        `json:"anomaly_score,omitempty"`
	AnomalyReason  string          `json:"anomaly_reason,omitempty"`
	PaymentChannel string          `json:"payment_channel,omitempty"`
	SourceType     string          `json:"source_type,omitempty"`
	InvoiceNo      string          `json:"invoice_no,omitempty"`
}

// Pending reports whether the transaction is flagged and still awaits review.
func (t Transaction) Pending() bool {
	return t.Flagged && t.Confirmed == nil
}

// Status describes the review state for display.
func (t Transaction) Status() string {
	switch {
	case t.Confirmed != nil && *t.Confirmed:
		return "confirmed"
	case t.Confirmed != nil:
		return "rejected"
	case t.Flagged:
		return "flagged"
	}
	return "ok"
}

// MostRecent returns up to n transactions ordered by date, newest first.
// The input slice is not modified.
func MostRecent(txs []Transaction, n int) []Transaction {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date.Time)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// TransactionPage is the response of the transactions listing.
type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	Total        int           `json:"total"`
	Limit        int           `json:"limit"`
	Offset       int           `json:"offset"`
}

// ListParams are the query parameters of the transactions listing.
type ListParams struct {
	Limit       int
	Offset      int
	FlaggedOnly bool
}

// FlaggedParams are the query parameters of the flagged listing.
type FlaggedParams struct {
	Limit           int
	Offset          int
	UnconfirmedOnly bool
}

// FlaggedPage is the response of the flagged listing.
type FlaggedPage struct {
	Transactions  []Transaction `json:"flagged_transactions"`
	Total         int           `json:"total"`
	PendingReview int           `json:"pending_review"`
}

// Without returns the page with the transaction id removed.
func (p FlaggedPage) Without(id int64) FlaggedPage {
	kept := make([]Transaction, 0, len(p.Transactions))
	for _, tx := range p.Transactions {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	removed := len(p.Transactions) - len(kept)
	p.Transactions = kept
	p.Total = max(p.Total-removed, 0)
	p.PendingReview = max(p.PendingReview-removed, 0)
	return p
}

// Confirmation is the body posted to confirm or reject a flagged transaction.
type Confirmation struct {
	Confirmed bool   `json:"confirmed"`
	Notes     string `json:"notes,omitempty" binding:"max=500"`
}

// ConfirmResult is the backend's response to a confirmation.
type ConfirmResult struct {
	Success       bool   `json:"success"`
	TransactionID int64  `json:"transaction_id"`
	Confirmed     bool   `json:"confirmed"`
	Flagged       bool   `json:"flagged"`
	Message       string `json:"message"`
	AIBenefit     string `json:"ai_benefit,omitempty"`
}

// Explanation is the backend's anomaly explanation.
type Explanation struct {
	Message string `json:"message"`
}
