package blockchain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/GregMSThompson/verify-backend/internal/dto"
	"github.com/GregMSThompson/verify-backend/internal/errs"
	"github.com/GregMSThompson/verify-backend/internal/metrics"
	"github.com/GregMSThompson/verify-backend/pkg/logger"
)

// Client is the chain-recording surface the service layer depends on.
type Client interface {
	Record(ctx context.Context, entry dto.BlockchainEntry) error
	Records(ctx context.Context, transactionID string) ([]dto.BlockchainEntry, error)
}

// Adapter talks to the external blockchain recording API. Records are an
// audit trail, not the source of truth: a failed write surfaces as an error
// for the caller to report, a failed read degrades to an empty result.
type Adapter struct {
	baseURL    string
	httpClient *http.Client
}

func NewAdapter(baseURL string, timeout time.Duration) *Adapter {
	return &Adapter{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Record appends the entry to the chain.
func (a *Adapter) Record(ctx context.Context, entry dto.BlockchainEntry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/blocks", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		metrics.BlockchainRecords.WithLabelValues("error").Inc()
		return errs.NewExternalServiceError("blockchain", err.Error(), true)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.BlockchainRecords.WithLabelValues("error").Inc()
		return errs.NewExternalServiceError("blockchain",
			fmt.Sprintf("blockchain API returned status %d", resp.StatusCode),
			resp.StatusCode >= 500)
	}
	metrics.BlockchainRecords.WithLabelValues("ok").Inc()
	return nil
}

type recordsRequest struct {
	TransactionID string `json:"transactionID"`
}

// Records returns the chain entries for a transaction id. The chain is
// best-effort: any failure is logged and reported as no entries.
func (a *Adapter) Records(ctx context.Context, transactionID string) ([]dto.BlockchainEntry, error) {
	log := logger.FromContext(ctx)

	body, err := json.Marshal(recordsRequest{TransactionID: transactionID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/transaction", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		log.Warn("blockchain lookup failed", "transaction_id", transactionID, "error", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("blockchain lookup rejected",
			"transaction_id", transactionID, "status", resp.StatusCode)
		return nil, nil
	}

	var entries []dto.BlockchainEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		log.Warn("malformed blockchain response", "transaction_id", transactionID, "error", err)
		return nil, nil
	}
	return entries, nil
}
