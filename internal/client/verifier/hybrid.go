package verifier

import (
	"context"

	"github.com/GregMSThompson/verify-backend/internal/dto"
	"github.com/GregMSThompson/verify-backend/internal/errs"
	"github.com/GregMSThompson/verify-backend/pkg/logger"
)

// Client is the verifier surface the orchestrator depends on.
type Client interface {
	Verify(ctx context.Context, id, sourceBankHint string) (dto.VerifierResult, error)
}

// Hybrid tries the real network adapter first and falls back to mock results
// when the network is unavailable. Hard (non-transient) failures still
// propagate.
type Hybrid struct {
	real Client
	mock Client
}

func NewHybrid(real, mock Client) *Hybrid {
	return &Hybrid{real: real, mock: mock}
}

func (h *Hybrid) Verify(ctx context.Context, id, sourceBankHint string) (dto.VerifierResult, error) {
	result, err := h.real.Verify(ctx, id, sourceBankHint)
	if err == nil {
		return result, nil
	}

	if ese, ok := err.(*errs.ExternalServiceError); ok && ese.Transient {
		log := logger.FromContext(ctx)
		log.Warn("real verifier unavailable, using mock fallback", "transaction_id", id)
		return h.mock.Verify(ctx, id, sourceBankHint)
	}
	return dto.VerifierResult{}, err
}
