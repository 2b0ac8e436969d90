package dto

import (
	"github.com/GregMSThompson/verify-backend/internal/models"
)

// VerificationMode selects how transactions are verified.
type VerificationMode string

const (
	// VerificationMock derives results locally, without network calls.
	VerificationMock VerificationMode = "mock"
	// VerificationReal calls the settlement network API.
	VerificationReal VerificationMode = "real"
	// VerificationHybrid calls the real API and falls back to mock results
	// when the API is unavailable.
	VerificationHybrid VerificationMode = "hybrid"
)

// VerifierResult is what a verifier reports for a transaction id.
type VerifierResult struct {
	Status          models.Status
	SourceBank      string
	DestinationBank string
	Amount          int64
	Reason          string
}
