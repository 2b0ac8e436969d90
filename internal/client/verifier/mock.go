package verifier

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"github.com/GregMSThompson/verify-backend/internal/dto"
	"github.com/GregMSThompson/verify-backend/internal/models"
)

// Mock derives verification results from structural properties of the
// transaction id, without network calls. The leading-character rules are
// deterministic so tests and demos behave predictably; everything else draws
// from a weighted distribution. Callers must not depend on the derivation
// strategy — a real adapter replaces this wholesale.
type Mock struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewMock(seed int64) *Mock {
	return &Mock{rng: rand.New(rand.NewSource(seed))}
}

func (m *Mock) Verify(ctx context.Context, id, sourceBankHint string) (dto.VerifierResult, error) {
	if err := ctx.Err(); err != nil {
		return dto.VerifierResult{}, err
	}

	status, reason := m.classify(id)

	result := dto.VerifierResult{
		Status:     status,
		SourceBank: sourceBankHint,
		Reason:     reason,
	}

	m.mu.Lock()
	result.DestinationBank = models.BankKeys[m.rng.Intn(len(models.BankKeys))]
	if status != models.StatusFake {
		// amounts in minor units: ₦500.00 – ₦500,500.00
		result.Amount = m.rng.Int63n(50000001) + 50000
	}
	m.mu.Unlock()

	if result.SourceBank == "" {
		m.mu.Lock()
		result.SourceBank = models.BankKeys[m.rng.Intn(len(models.BankKeys))]
		m.mu.Unlock()
	}

	return result, nil
}

func (m *Mock) classify(id string) (models.Status, string) {
	switch {
	case strings.HasPrefix(id, "9") || strings.Contains(id, "FAKE"):
		return models.StatusFake, "Transaction ID not found in banking system"
	case strings.HasPrefix(id, "P"):
		return models.StatusPending, "Transaction is being processed"
	case strings.HasPrefix(id, "F"):
		return models.StatusFailed, "Insufficient funds or technical error"
	}

	m.mu.Lock()
	roll := m.rng.Float64()
	m.mu.Unlock()

	switch {
	case roll < 0.7:
		return models.StatusSuccessful, "Transaction completed successfully"
	case roll < 0.85:
		return models.StatusPending, "Transaction processing"
	case roll < 0.95:
		return models.StatusFailed, "Transaction failed"
	default:
		return models.StatusFake, "Invalid transaction"
	}
}
