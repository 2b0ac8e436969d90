package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/GregMSThompson/verify-backend/internal/dto"
	"github.com/GregMSThompson/verify-backend/internal/errs"
	"github.com/GregMSThompson/verify-backend/internal/response"
	"github.com/GregMSThompson/verify-backend/pkg/logger"
)

type transactionHandlers struct {
	ResponseHandler response.ResponseHandler
	TransactionSvc  TransactionService
	StatsSvc        StatsService
	BlockchainSvc   BlockchainService
}

func NewTransactionHandlers(deps *Deps) *transactionHandlers {
	return &transactionHandlers{
		ResponseHandler: deps.ResponseHandler,
		TransactionSvc:  deps.TransactionSvc,
		StatsSvc:        deps.StatsSvc,
		BlockchainSvc:   deps.BlockchainSvc,
	}
}

func (h *transactionHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/verify", h.VerifyTransaction)
	r.Route("/transaction/{id}", func(r chi.Router) {
		r.Get("/", h.GetTransaction)
		r.Post("/recheck", h.RecheckTransaction)
	})
	r.Post("/webhook/status", h.WebhookStatus)
	r.Route("/blockchain", func(r chi.Router) {
		r.Post("/", h.RecordOnChain)
		r.Get("/{id}", h.GetChainRecords)
	})
	r.Get("/stats", h.GetStats)
	r.Get("/health", h.HealthCheck)
	return r
}

func (h *transactionHandlers) VerifyTransaction(w http.ResponseWriter, r *http.Request) {
	var body dto.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("Invalid request body format."))
		return
	}

	result, err := h.TransactionSvc.Resolve(r.Context(), body.TransactionID, requestMeta(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

func (h *transactionHandlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.TransactionSvc.GetByID(r.Context(), id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

func (h *transactionHandlers) RecheckTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.TransactionSvc.Recheck(r.Context(), id, requestMeta(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

func (h *transactionHandlers) WebhookStatus(w http.ResponseWriter, r *http.Request) {
	var update dto.WebhookStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("Invalid request body format."))
		return
	}
	if update.EventID == "" {
		update.EventID = uuid.NewString()
	}

	log, ctx := logger.With(r.Context(), "event_id", update.EventID)
	result, err := h.TransactionSvc.ApplyStatusUpdate(ctx, update)
	if err != nil {
		h.ResponseHandler.HandleError(w, r.WithContext(ctx), err)
		return
	}

	log.Info("webhook event processed", "transaction_id", result.TransactionID)
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

func (h *transactionHandlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.StatsSvc.GetStats(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, stats)
}

func requestMeta(r *http.Request) dto.RequestMeta {
	return dto.RequestMeta{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}
