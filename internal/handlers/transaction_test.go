package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/verify-backend/internal/dto"
	"github.com/GregMSThompson/verify-backend/internal/errs"
	"github.com/GregMSThompson/verify-backend/internal/models"
	"github.com/GregMSThompson/verify-backend/internal/response"
	"github.com/GregMSThompson/verify-backend/pkg/logger"
)

type stubTransactionSvc struct {
	resolveResp dto.TransactionResponse
	resolveErr  error
	getResp     dto.TransactionResponse
	getErr      error
	recheckResp dto.TransactionResponse
	recheckErr  error
	webhookResp dto.TransactionResponse
	webhookErr  error

	gotResolveID string
	gotMeta      dto.RequestMeta
	gotUpdate    dto.WebhookStatusUpdate
}

func (s *stubTransactionSvc) Resolve(ctx context.Context, rawID string, meta dto.RequestMeta) (dto.TransactionResponse, error) {
	s.gotResolveID = rawID
	s.gotMeta = meta
	return s.resolveResp, s.resolveErr
}

func (s *stubTransactionSvc) GetByID(ctx context.Context, rawID string) (dto.TransactionResponse, error) {
	return s.getResp, s.getErr
}

func (s *stubTransactionSvc) Recheck(ctx context.Context, rawID string, meta dto.RequestMeta) (dto.TransactionResponse, error) {
	return s.recheckResp, s.recheckErr
}

func (s *stubTransactionSvc) ApplyStatusUpdate(ctx context.Context, update dto.WebhookStatusUpdate) (dto.TransactionResponse, error) {
	s.gotUpdate = update
	return s.webhookResp, s.webhookErr
}

type stubStatsSvc struct {
	resp dto.StatsResponse
	err  error
}

func (s *stubStatsSvc) GetStats(ctx context.Context) (dto.StatsResponse, error) {
	return s.resp, s.err
}

type stubBlockchainSvc struct {
	entry   dto.BlockchainEntry
	entries []dto.BlockchainEntry
	err     error

	gotRecord dto.BlockchainRecordRequest
	gotLookup string
}

func (s *stubBlockchainSvc) Record(ctx context.Context, req dto.BlockchainRecordRequest) (dto.BlockchainEntry, error) {
	s.gotRecord = req
	return s.entry, s.err
}

func (s *stubBlockchainSvc) Records(ctx context.Context, rawID string) ([]dto.BlockchainEntry, error) {
	s.gotLookup = rawID
	return s.entries, s.err
}

func newTestRouter(tsvc *stubTransactionSvc, ssvc *stubStatsSvc) http.Handler {
	return newTestRouterWithChain(tsvc, ssvc, &stubBlockchainSvc{})
}

func newTestRouterWithChain(tsvc *stubTransactionSvc, ssvc *stubStatsSvc, bsvc *stubBlockchainSvc) http.Handler {
	log := logger.New("error", logger.NewTestHandler)
	h := NewTransactionHandlers(&Deps{
		Log:             log,
		ResponseHandler: response.New(log),
		TransactionSvc:  tsvc,
		StatsSvc:        ssvc,
		BlockchainSvc:   bsvc,
	})
	return h.TransactionRoutes()
}

type successEnvelope struct {
	Success bool                    `json:"success"`
	Data    dto.TransactionResponse `json:"data"`
}

func TestVerifyTransaction(t *testing.T) {
	tsvc := &stubTransactionSvc{resolveResp: dto.TransactionResponse{
		TransactionID: "0011234567890",
		Status:        models.StatusSuccessful,
		SourceBank:    "UBA",
		Amount:        125000,
		CheckCount:    1,
	}}
	router := newTestRouter(tsvc, &stubStatsSvc{})

	req := httptest.NewRequest(http.MethodPost, "/verify",
		strings.NewReader(`{"transactionId":"0011234567890"}`))
	req.RemoteAddr = "10.0.0.1:5000"
	req.Header.Set("User-Agent", "test-agent")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var env successEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !env.Success {
		t.Fatal("envelope success = false")
	}
	if env.Data.TransactionID != "0011234567890" || env.Data.Status != models.StatusSuccessful {
		t.Fatalf("unexpected data: %#v", env.Data)
	}
	if tsvc.gotResolveID != "0011234567890" {
		t.Fatalf("service got id %q", tsvc.gotResolveID)
	}
	if tsvc.gotMeta.IPAddress != "10.0.0.1:5000" || tsvc.gotMeta.UserAgent != "test-agent" {
		t.Fatalf("unexpected meta: %#v", tsvc.gotMeta)
	}
}

func TestVerifyTransactionMalformedBody(t *testing.T) {
	router := newTestRouter(&stubTransactionSvc{}, &stubStatsSvc{})

	req := httptest.NewRequest(http.MethodPost, "/verify", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body response.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Code != "invalid_input" {
		t.Fatalf("error code = %q, want invalid_input", body.Code)
	}
}

func TestVerifyTransactionValidationError(t *testing.T) {
	tsvc := &stubTransactionSvc{resolveErr: errs.NewValidationError("Transaction ID is required")}
	router := newTestRouter(tsvc, &stubStatsSvc{})

	req := httptest.NewRequest(http.MethodPost, "/verify",
		strings.NewReader(`{"transactionId":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetTransaction(t *testing.T) {
	tsvc := &stubTransactionSvc{getResp: dto.TransactionResponse{
		TransactionID: "0011234567890",
		Status:        models.StatusPending,
		Cached:        true,
	}}
	router := newTestRouter(tsvc, &stubStatsSvc{})

	req := httptest.NewRequest(http.MethodGet, "/transaction/0011234567890", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var env successEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !env.Data.Cached {
		t.Fatal("cached flag not surfaced")
	}
}

func TestGetTransactionNotFound(t *testing.T) {
	tsvc := &stubTransactionSvc{getErr: errs.NewNotFoundError("Transaction not found")}
	router := newTestRouter(tsvc, &stubStatsSvc{})

	req := httptest.NewRequest(http.MethodGet, "/transaction/0011234567890", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRecheckTransaction(t *testing.T) {
	tsvc := &stubTransactionSvc{recheckResp: dto.TransactionResponse{
		TransactionID: "0011234567890",
		Status:        models.StatusFailed,
	}}
	router := newTestRouter(tsvc, &stubStatsSvc{})

	req := httptest.NewRequest(http.MethodPost, "/transaction/0011234567890/recheck", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestWebhookStatusGeneratesEventID(t *testing.T) {
	tsvc := &stubTransactionSvc{webhookResp: dto.TransactionResponse{
		TransactionID: "0011234567890",
		Status:        models.StatusSuccessful,
	}}
	router := newTestRouter(tsvc, &stubStatsSvc{})

	req := httptest.NewRequest(http.MethodPost, "/webhook/status",
		strings.NewReader(`{"transactionId":"0011234567890","status":"successful"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if tsvc.gotUpdate.EventID == "" {
		t.Fatal("missing eventId was not generated")
	}
	if tsvc.gotUpdate.Status != models.StatusSuccessful {
		t.Fatalf("update status = %q", tsvc.gotUpdate.Status)
	}
}

func TestWebhookStatusKeepsProvidedEventID(t *testing.T) {
	tsvc := &stubTransactionSvc{webhookResp: dto.TransactionResponse{}}
	router := newTestRouter(tsvc, &stubStatsSvc{})

	req := httptest.NewRequest(http.MethodPost, "/webhook/status",
		strings.NewReader(`{"eventId":"evt-123","transactionId":"0011234567890","status":"failed"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if tsvc.gotUpdate.EventID != "evt-123" {
		t.Fatalf("eventId = %q, want evt-123", tsvc.gotUpdate.EventID)
	}
}

func TestWebhookStatusUnknownTransaction(t *testing.T) {
	tsvc := &stubTransactionSvc{webhookErr: errs.NewNotFoundError("Transaction not found")}
	router := newTestRouter(tsvc, &stubStatsSvc{})

	req := httptest.NewRequest(http.MethodPost, "/webhook/status",
		strings.NewReader(`{"transactionId":"0011234567890","status":"successful"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetStats(t *testing.T) {
	ssvc := &stubStatsSvc{resp: dto.StatsResponse{
		Total: 200,
		ByStatus: []dto.StatusStats{
			{Status: models.StatusSuccessful, Count: 140, TotalAmount: 3500000},
		},
		Cache: dto.CacheSnapshot{Size: 5, Keys: []string{"A"}},
	}}
	router := newTestRouter(&stubTransactionSvc{}, ssvc)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var env struct {
		Success bool              `json:"success"`
		Data    dto.StatsResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Data.Total != 200 {
		t.Fatalf("total = %d, want 200", env.Data.Total)
	}
}

func TestGetStatsStoreError(t *testing.T) {
	ssvc := &stubStatsSvc{err: errs.NewDatabaseError("aggregate", "firestore unreachable")}
	router := newTestRouter(&stubTransactionSvc{}, ssvc)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestRecordOnChain(t *testing.T) {
	bsvc := &stubBlockchainSvc{entry: dto.BlockchainEntry{
		TransactionID: "0011234567890",
		Amount:        125000,
		Status:        models.StatusSuccessful,
	}}
	router := newTestRouterWithChain(&stubTransactionSvc{}, &stubStatsSvc{}, bsvc)

	req := httptest.NewRequest(http.MethodPost, "/blockchain",
		strings.NewReader(`{"transactionId":"0011234567890","amount":125000,"status":"successful"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if bsvc.gotRecord.TransactionID != "0011234567890" || bsvc.gotRecord.Amount != 125000 {
		t.Fatalf("service got request %#v", bsvc.gotRecord)
	}
	var env struct {
		Success bool                `json:"success"`
		Data    dto.BlockchainEntry `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Data.Status != models.StatusSuccessful {
		t.Fatalf("unexpected data: %#v", env.Data)
	}
}

func TestRecordOnChainMissingFields(t *testing.T) {
	bsvc := &stubBlockchainSvc{err: errs.NewValidationError("Amount must be a positive number of minor units")}
	router := newTestRouterWithChain(&stubTransactionSvc{}, &stubStatsSvc{}, bsvc)

	req := httptest.NewRequest(http.MethodPost, "/blockchain",
		strings.NewReader(`{"transactionId":"0011234567890"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRecordOnChainUnavailable(t *testing.T) {
	bsvc := &stubBlockchainSvc{err: errs.NewExternalServiceError("blockchain", "unreachable", true)}
	router := newTestRouterWithChain(&stubTransactionSvc{}, &stubStatsSvc{}, bsvc)

	req := httptest.NewRequest(http.MethodPost, "/blockchain",
		strings.NewReader(`{"transactionId":"0011234567890","amount":100,"status":"successful"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestGetChainRecords(t *testing.T) {
	bsvc := &stubBlockchainSvc{entries: []dto.BlockchainEntry{
		{TransactionID: "0011234567890", Amount: 125000, Status: models.StatusSuccessful, BlockHash: "abc123"},
	}}
	router := newTestRouterWithChain(&stubTransactionSvc{}, &stubStatsSvc{}, bsvc)

	req := httptest.NewRequest(http.MethodGet, "/blockchain/0011234567890", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if bsvc.gotLookup != "0011234567890" {
		t.Fatalf("service got id %q", bsvc.gotLookup)
	}
	var env struct {
		Success bool                  `json:"success"`
		Data    []dto.BlockchainEntry `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(env.Data) != 1 || env.Data[0].BlockHash != "abc123" {
		t.Fatalf("unexpected data: %#v", env.Data)
	}
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&stubTransactionSvc{}, &stubStatsSvc{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var env struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Data["status"] != "healthy" {
		t.Fatalf("health status = %v, want healthy", env.Data["status"])
	}
}
