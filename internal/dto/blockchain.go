package dto

import (
	"github.com/GregMSThompson/verify-backend/internal/models"
)

// BlockchainRecordRequest is the body of POST /api/blockchain.
type BlockchainRecordRequest struct {
	TransactionID string        `json:"transactionId"`
	Amount        int64         `json:"amount"`
	Status        models.Status `json:"status"`
}

// BlockchainEntry is one entry recorded for a transaction on the external
// chain. BlockHash is set only when the chain reports it.
type BlockchainEntry struct {
	TransactionID string        `json:"transactionId"`
	Amount        int64         `json:"amount"`
	Status        models.Status `json:"status"`
	BlockHash     string        `json:"blockHash,omitempty"`
}
