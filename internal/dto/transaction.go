package dto

import (
	"time"

	"github.com/GregMSThompson/verify-backend/internal/models"
)

// VerifyRequest is the body of POST /api/verify.
type VerifyRequest struct {
	TransactionID string `json:"transactionId"`
}

// RequestMeta carries caller context captured by the handler layer.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// TransactionResponse is the externally visible shape of a resolved record.
// Cached reports whether the request was satisfied without a fresh
// verification.
type TransactionResponse struct {
	TransactionID       string                `json:"transactionId"`
	Status              models.Status         `json:"status"`
	SourceBank          string                `json:"sourceBank"`
	DestinationBank     string                `json:"destinationBank"`
	Amount              int64                 `json:"amount"`
	LastChecked         time.Time             `json:"lastChecked"`
	CheckCount          int64                 `json:"checkCount"`
	Cached              bool                  `json:"cached"`
	VerificationHistory []models.HistoryEntry `json:"verificationHistory"`
}

// WebhookStatusUpdate is the body of POST /api/webhook/status, pushed by an
// upstream settlement network when a transaction changes state.
type WebhookStatusUpdate struct {
	EventID       string        `json:"eventId,omitempty"`
	TransactionID string        `json:"transactionId"`
	Status        models.Status `json:"status"`
	Reason        string        `json:"reason,omitempty"`
}
