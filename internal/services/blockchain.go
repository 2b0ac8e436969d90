package services

import (
	"context"

	"github.com/GregMSThompson/verify-backend/internal/dto"
	"github.com/GregMSThompson/verify-backend/internal/errs"
	"github.com/GregMSThompson/verify-backend/internal/models"
	"github.com/GregMSThompson/verify-backend/pkg/logger"
)

// chainClient is the chain-recording surface this service needs.
type chainClient interface {
	Record(ctx context.Context, entry dto.BlockchainEntry) error
	Records(ctx context.Context, transactionID string) ([]dto.BlockchainEntry, error)
}

type blockchainService struct {
	chain     chainClient
	validator idValidator
}

func NewBlockchainService(chain chainClient, validator idValidator) *blockchainService {
	return &blockchainService{chain: chain, validator: validator}
}

// Record writes an audit entry for a resolved transaction to the external
// chain. All three fields are required; the chain never sees an unnormalized
// id or an unknown status.
func (s *blockchainService) Record(ctx context.Context, req dto.BlockchainRecordRequest) (dto.BlockchainEntry, error) {
	id, err := s.validator.NormalizeID(req.TransactionID)
	if err != nil {
		return dto.BlockchainEntry{}, err
	}
	if req.Amount <= 0 {
		return dto.BlockchainEntry{}, errs.NewValidationError("Amount must be a positive number of minor units")
	}
	if !models.IsValidStatus(req.Status) {
		return dto.BlockchainEntry{}, errs.NewValidationError("Unknown transaction status: " + string(req.Status))
	}

	entry := dto.BlockchainEntry{
		TransactionID: id,
		Amount:        req.Amount,
		Status:        req.Status,
	}
	if err := s.chain.Record(ctx, entry); err != nil {
		return dto.BlockchainEntry{}, err
	}

	logger.FromContext(ctx).Info("transaction recorded on chain",
		"transaction_id", id, "status", entry.Status)
	return entry, nil
}

// Records returns the chain entries for a transaction id, empty when the
// chain has none (or is unreachable).
func (s *blockchainService) Records(ctx context.Context, rawID string) ([]dto.BlockchainEntry, error) {
	id, err := s.validator.NormalizeID(rawID)
	if err != nil {
		return nil, err
	}

	entries, err := s.chain.Records(ctx, id)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []dto.BlockchainEntry{}
	}
	return entries, nil
}
