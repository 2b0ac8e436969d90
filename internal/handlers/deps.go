package handlers

import (
	"context"
	"log/slog"

	"github.com/GregMSThompson/verify-backend/internal/dto"
	"github.com/GregMSThompson/verify-backend/internal/response"
)

// TransactionService is the resolution surface the handlers dispatch to.
type TransactionService interface {
	Resolve(ctx context.Context, rawID string, meta dto.RequestMeta) (dto.TransactionResponse, error)
	GetByID(ctx context.Context, rawID string) (dto.TransactionResponse, error)
	Recheck(ctx context.Context, rawID string, meta dto.RequestMeta) (dto.TransactionResponse, error)
	ApplyStatusUpdate(ctx context.Context, update dto.WebhookStatusUpdate) (dto.TransactionResponse, error)
}

// StatsService produces the read-only verification rollup.
type StatsService interface {
	GetStats(ctx context.Context) (dto.StatsResponse, error)
}

// BlockchainService records resolved transactions on the external chain and
// reads them back.
type BlockchainService interface {
	Record(ctx context.Context, req dto.BlockchainRecordRequest) (dto.BlockchainEntry, error)
	Records(ctx context.Context, rawID string) ([]dto.BlockchainEntry, error)
}

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	TransactionSvc  TransactionService
	StatsSvc        StatsService
	BlockchainSvc   BlockchainService
}
