package models

import (
	"time"
)

// Status is the canonical resolution outcome for a transaction.
type Status string

const (
	StatusSuccessful  Status = "successful"
	StatusPending     Status = "pending"
	StatusFailed      Status = "failed"
	StatusFake        Status = "fake"
	StatusUnavailable Status = "verification_unavailable"
)

// AllStatuses is every value of Status, in display order.
var AllStatuses = []Status{
	StatusSuccessful,
	StatusPending,
	StatusFailed,
	StatusFake,
	StatusUnavailable,
}

// IsValidStatus reports whether s is a recognized status value.
func IsValidStatus(s Status) bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// HistorySource records what triggered a verification history entry.
type HistorySource string

const (
	SourceInitialCheck HistorySource = "initial_check"
	SourceRecheck      HistorySource = "recheck"
	SourceWebhook      HistorySource = "webhook"
	SourceManual       HistorySource = "manual"
)

// HistoryEntry is one element of a record's append-only verification history.
type HistoryEntry struct {
	Status    Status        `firestore:"status" json:"status"`
	Timestamp time.Time     `firestore:"timestamp" json:"timestamp"`
	Source    HistorySource `firestore:"source" json:"source"`
}

// Metadata is opaque caller context captured at resolution time.
type Metadata struct {
	IPAddress        string `firestore:"ipAddress" json:"ipAddress,omitempty"`
	UserAgent        string `firestore:"userAgent" json:"userAgent,omitempty"`
	VerificationMode string `firestore:"verificationMode" json:"verificationMode,omitempty"`
}

// TransactionRecord is the persisted resolution of a transaction id.
// The document id in Firestore equals TransactionID, which is also the
// cache key.
type TransactionRecord struct {
	TransactionID       string         `firestore:"transactionId" json:"transactionId"`
	Status              Status         `firestore:"status" json:"status"`
	SourceBank          string         `firestore:"sourceBank" json:"sourceBank"`
	DestinationBank     string         `firestore:"destinationBank" json:"destinationBank"`
	Amount              int64          `firestore:"amount" json:"amount"` // minor currency units
	LastChecked         time.Time      `firestore:"lastChecked" json:"lastChecked"`
	CheckCount          int64          `firestore:"checkCount" json:"checkCount"`
	VerificationHistory []HistoryEntry `firestore:"verificationHistory" json:"verificationHistory"`
	ExpiresAt           time.Time      `firestore:"expiresAt" json:"expiresAt"`
	Metadata            Metadata       `firestore:"metadata" json:"metadata"`
	CreatedAt           time.Time      `firestore:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time      `firestore:"updatedAt" json:"updatedAt"`
}

// IsStale reports whether the record's last verification is older than window.
func (r *TransactionRecord) IsStale(window time.Duration, now time.Time) bool {
	return r.LastChecked.Before(now.Add(-window))
}

// RecordPatch is the set of fields an upsert may change. Nil fields are left
// untouched on an existing record; on insert they default to zero values.
// LastChecked is always applied.
type RecordPatch struct {
	Status          *Status
	SourceBank      *string
	DestinationBank *string
	Amount          *int64
	LastChecked     time.Time
	ExpiresAt       *time.Time
	Metadata        *Metadata
}
