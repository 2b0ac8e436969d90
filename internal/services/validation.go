package services

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/GregMSThompson/verify-backend/internal/errs"
	"github.com/GregMSThompson/verify-backend/internal/models"
)

var transactionIDPattern = regexp.MustCompile(`^[A-Z0-9]{10,20}$`)

// validationService normalizes transaction ids and derives the source bank
// from the id's routing prefix.
type validationService struct {
	relaxed bool

	mu  sync.Mutex
	rng *rand.Rand
}

// NewValidationService builds a validator. With relaxed set, an unknown
// routing prefix resolves to a uniformly-random known bank instead of
// failing; the choice is non-deterministic and callers must treat it as
// such until it has been persisted.
func NewValidationService(relaxed bool) *validationService {
	return &validationService{
		relaxed: relaxed,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NormalizeID trims and uppercases raw and checks the canonical format.
// Idempotent: normalizing an already-normalized id returns it unchanged.
func (s *validationService) NormalizeID(raw string) (string, error) {
	id := strings.ToUpper(strings.TrimSpace(raw))
	if id == "" {
		return "", errs.NewValidationError("Transaction ID is required")
	}
	if !transactionIDPattern.MatchString(id) {
		return "", errs.NewValidationError(
			"Invalid transaction ID format. Must be 10-20 alphanumeric characters.")
	}
	return id, nil
}

// SourceBankForID maps the first three characters of a normalized id to a
// registered bank. Unknown prefixes fail in strict mode and fall back to a
// random known bank in relaxed mode.
func (s *validationService) SourceBankForID(id string) (string, error) {
	prefix := id[:3]
	if bank, ok := models.BankByPrefix(prefix); ok {
		return bank, nil
	}

	if s.relaxed {
		s.mu.Lock()
		bank := models.BankKeys[s.rng.Intn(len(models.BankKeys))]
		s.mu.Unlock()
		return bank, nil
	}

	return "", errs.NewUnrecognizedPrefixError(prefix)
}
