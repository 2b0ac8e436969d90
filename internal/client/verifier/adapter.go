package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/GregMSThompson/verify-backend/internal/dto"
	"github.com/GregMSThompson/verify-backend/internal/errs"
	"github.com/GregMSThompson/verify-backend/internal/metrics"
	"github.com/GregMSThompson/verify-backend/internal/models"
	"github.com/GregMSThompson/verify-backend/pkg/logger"
)

// Adapter calls the settlement network's verification API. The API is slow
// and unreliable; every failure mode (timeout, connection error, non-2xx)
// comes back as a transient ExternalServiceError so the orchestrator can
// degrade instead of failing the request.
type Adapter struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewAdapter(baseURL, apiKey string, timeout time.Duration) *Adapter {
	return &Adapter{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type verifyRequest struct {
	TransactionID string `json:"transactionId"`
}

type verifyResponse struct {
	Status          string `json:"status"`
	SourceBank      string `json:"sourceBank"`
	DestinationBank string `json:"destinationBank"`
	Amount          int64  `json:"amount"`
	Message         string `json:"message"`
}

func (a *Adapter) Verify(ctx context.Context, id, sourceBankHint string) (dto.VerifierResult, error) {
	log := logger.FromContext(ctx)

	body, err := json.Marshal(verifyRequest{TransactionID: id})
	if err != nil {
		return dto.VerifierResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/transactions/verify", bytes.NewReader(body))
	if err != nil {
		return dto.VerifierResult{}, err
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		metrics.VerifierLatency.WithLabelValues("error").Observe(time.Since(start).Seconds())
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("verifier timeout", "transaction_id", id)
			return dto.VerifierResult{}, errs.NewExternalServiceError("verifier", "verification request timed out", true)
		}
		return dto.VerifierResult{}, errs.NewExternalServiceError("verifier", err.Error(), true)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.VerifierLatency.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return dto.VerifierResult{}, errs.NewExternalServiceError("verifier",
			fmt.Sprintf("verifier returned status %d", resp.StatusCode),
			resp.StatusCode >= 500)
	}

	var vr verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		metrics.VerifierLatency.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return dto.VerifierResult{}, errs.NewExternalServiceError("verifier", "malformed verifier response", false)
	}
	metrics.VerifierLatency.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	result := dto.VerifierResult{
		Status:          mapNetworkStatus(vr.Status),
		SourceBank:      vr.SourceBank,
		DestinationBank: vr.DestinationBank,
		Amount:          vr.Amount,
		Reason:          vr.Message,
	}
	if result.SourceBank == "" {
		result.SourceBank = sourceBankHint
	}
	if result.Reason == "" {
		result.Reason = "Transaction verified"
	}
	return result, nil
}

// mapNetworkStatus translates settlement-network status codes to the
// canonical set. Unknown codes degrade rather than guess.
func mapNetworkStatus(networkStatus string) models.Status {
	switch networkStatus {
	case "SUCCESS", "COMPLETED":
		return models.StatusSuccessful
	case "PENDING", "PROCESSING":
		return models.StatusPending
	case "FAILED", "REJECTED":
		return models.StatusFailed
	case "NOT_FOUND", "INVALID":
		return models.StatusFake
	default:
		return models.StatusUnavailable
	}
}
