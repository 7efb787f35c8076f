package models

import "github.com/shopspring/decimal"

// Stats summarises transactions over a period.
type Stats struct {
	PeriodDays        int             `json:"period_days"`
	TotalTransactions int             `json:"total_transactions"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	AverageAmount     decimal.Decimal `json:"average_amount"`
	FlaggedCount      int             `json:"flagged_count"`
	ConfirmedCount    int             `json:"confirmed_count"`
	UnconfirmedCount  int             `json:"unconfirmed_count"`
	Categories        []CategoryTotal `json:"categories"`
	TopMerchants      []MerchantTotal `json:"top_merchants"`
	PaymentChannels   map[string]int  `json:"payment_channels"`
}

// CategoryTotal is the spend within one category.
type CategoryTotal struct {
	Category   string          `json:"category"`
	Count      int             `json:"count"`
	Total      decimal.Decimal `json:"total"`
	Percentage float64         `json:"percentage"`
}

// MerchantTotal is the spend at one merchant.
type MerchantTotal struct {
	Merchant         string          `json:"merchant"`
	TransactionCount int             `json:"transaction_count"`
	TotalSpent       decimal.Decimal `json:"total_spent"`
}
