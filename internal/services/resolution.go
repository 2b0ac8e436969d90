package services

import (
	"context"
	"time"

	"github.com/GregMSThompson/verify-backend/internal/dto"
	"github.com/GregMSThompson/verify-backend/internal/errs"
	"github.com/GregMSThompson/verify-backend/internal/metrics"
	"github.com/GregMSThompson/verify-backend/internal/models"
	"github.com/GregMSThompson/verify-backend/pkg/helpers"
	"github.com/GregMSThompson/verify-backend/pkg/logger"
)

const degradedReason = "Verification service temporarily unavailable"

// --- Dependencies (minimal interfaces scoped to this service) ---

// transactionRSStore is the persistence surface the resolver needs. Upsert
// must be atomic per id: concurrent calls may interleave but never lose a
// history entry or create a duplicate record.
type transactionRSStore interface {
	FindByID(ctx context.Context, id string) (*models.TransactionRecord, error)
	Upsert(ctx context.Context, id string, patch models.RecordPatch, entry models.HistoryEntry) (*models.TransactionRecord, error)
}

// recordCache is the in-process cache surface.
type recordCache interface {
	Get(id string) *models.TransactionRecord
	Put(rec *models.TransactionRecord)
	Invalidate(id string)
}

// idValidator normalizes ids and derives routing banks.
type idValidator interface {
	NormalizeID(raw string) (string, error)
	SourceBankForID(id string) (string, error)
}

// verifierRSClient is the external verification capability.
type verifierRSClient interface {
	Verify(ctx context.Context, id, sourceBankHint string) (dto.VerifierResult, error)
}

type resolutionService struct {
	store     transactionRSStore
	cache     recordCache
	verifier  verifierRSClient
	validator idValidator

	mode          dto.VerificationMode
	pendingWindow time.Duration
	recordTTL     time.Duration
	verifyTimeout time.Duration
	clockNow      func() time.Time
}

func NewResolutionService(
	store transactionRSStore,
	cache recordCache,
	vrf verifierRSClient,
	validator idValidator,
	mode dto.VerificationMode,
	pendingWindow, recordTTL, verifyTimeout time.Duration,
) *resolutionService {
	return &resolutionService{
		store:         store,
		cache:         cache,
		verifier:      vrf,
		validator:     validator,
		mode:          mode,
		pendingWindow: pendingWindow,
		recordTTL:     recordTTL,
		verifyTimeout: verifyTimeout,
		clockNow:      time.Now,
	}
}

// Resolve runs the three-tier lookup for a raw transaction id: cache, then
// store, then the external verifier. It always ends with a persisted
// outcome — a verifier failure is absorbed into a verification_unavailable
// record rather than surfaced as an error.
func (s *resolutionService) Resolve(ctx context.Context, rawID string, meta dto.RequestMeta) (dto.TransactionResponse, error) {
	id, err := s.validator.NormalizeID(rawID)
	if err != nil {
		return dto.TransactionResponse{}, err
	}
	log := logger.FromContext(ctx)

	if rec := s.cache.Get(id); rec != nil {
		log.Info("resolution served from cache", "transaction_id", id, "status", rec.Status)
		metrics.ResolutionsTotal.WithLabelValues(metrics.TierCache, string(rec.Status)).Inc()
		return toResponse(rec, true), nil
	}

	now := s.clockNow()
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return dto.TransactionResponse{}, err
	}

	if existing != nil {
		stalePending := existing.Status == models.StatusPending &&
			existing.IsStale(s.pendingWindow, now)

		if !stalePending {
			// Fresh enough: refresh lastChecked/checkCount, no verifier call.
			// The patch re-asserts the observed fields so that if the expiry
			// sweep deletes the document between the read and the upsert, the
			// recreated record is complete rather than a bare counter.
			updated, err := s.store.Upsert(ctx, id,
				models.RecordPatch{
					Status:          helpers.Ptr(existing.Status),
					SourceBank:      helpers.Ptr(existing.SourceBank),
					DestinationBank: helpers.Ptr(existing.DestinationBank),
					Amount:          helpers.Ptr(existing.Amount),
					LastChecked:     now,
					ExpiresAt:       helpers.Ptr(existing.ExpiresAt),
				},
				models.HistoryEntry{Status: existing.Status, Timestamp: now, Source: models.SourceRecheck})
			if err != nil {
				return dto.TransactionResponse{}, err
			}
			s.cache.Put(updated)
			log.Info("resolution served from store", "transaction_id", id, "status", updated.Status)
			metrics.ResolutionsTotal.WithLabelValues(metrics.TierStore, string(updated.Status)).Inc()
			return toResponse(updated, true), nil
		}
		log.Info("stale pending record, forcing re-verification", "transaction_id", id)
	}

	// Genuine miss or forced re-check: consult the verifier. The stored
	// source bank is sticky; only first-time resolutions derive it from the
	// routing prefix.
	var hint string
	if existing != nil {
		hint = existing.SourceBank
	} else {
		hint, err = s.validator.SourceBankForID(id)
		if err != nil {
			return dto.TransactionResponse{}, err
		}
	}

	result := s.verify(ctx, id, hint)

	histSource := models.SourceInitialCheck
	if existing != nil {
		histSource = models.SourceRecheck
	}

	rec, err := s.persist(ctx, id, result, histSource, meta, now)
	if err != nil {
		return dto.TransactionResponse{}, err
	}

	log.Info("resolution verified",
		"transaction_id", id,
		"status", rec.Status,
		"source_bank", rec.SourceBank,
		"check_count", rec.CheckCount)
	metrics.ResolutionsTotal.WithLabelValues(metrics.TierVerifier, string(rec.Status)).Inc()
	return toResponse(rec, false), nil
}

// GetByID is the read-only lookup path: cache, then store, never the
// verifier, never a mutation.
func (s *resolutionService) GetByID(ctx context.Context, rawID string) (dto.TransactionResponse, error) {
	id, err := s.validator.NormalizeID(rawID)
	if err != nil {
		return dto.TransactionResponse{}, err
	}

	if rec := s.cache.Get(id); rec != nil {
		return toResponse(rec, true), nil
	}

	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		return dto.TransactionResponse{}, err
	}
	if rec == nil {
		return dto.TransactionResponse{}, errs.NewNotFoundError("Transaction not found")
	}
	return toResponse(rec, false), nil
}

// Recheck forces a fresh verification regardless of cache or staleness and
// records it with a manual history entry.
func (s *resolutionService) Recheck(ctx context.Context, rawID string, meta dto.RequestMeta) (dto.TransactionResponse, error) {
	id, err := s.validator.NormalizeID(rawID)
	if err != nil {
		return dto.TransactionResponse{}, err
	}
	now := s.clockNow()

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return dto.TransactionResponse{}, err
	}

	var hint string
	if existing != nil {
		hint = existing.SourceBank
	} else {
		hint, err = s.validator.SourceBankForID(id)
		if err != nil {
			return dto.TransactionResponse{}, err
		}
	}

	result := s.verify(ctx, id, hint)
	rec, err := s.persist(ctx, id, result, models.SourceManual, meta, now)
	if err != nil {
		return dto.TransactionResponse{}, err
	}

	logger.FromContext(ctx).Info("manual recheck completed",
		"transaction_id", id, "status", rec.Status)
	metrics.ResolutionsTotal.WithLabelValues(metrics.TierVerifier, string(rec.Status)).Inc()
	return toResponse(rec, false), nil
}

// ApplyStatusUpdate ingests an externally pushed status change (webhook) for
// an already known transaction.
func (s *resolutionService) ApplyStatusUpdate(ctx context.Context, update dto.WebhookStatusUpdate) (dto.TransactionResponse, error) {
	id, err := s.validator.NormalizeID(update.TransactionID)
	if err != nil {
		return dto.TransactionResponse{}, err
	}
	if !models.IsValidStatus(update.Status) {
		return dto.TransactionResponse{}, errs.NewValidationError("Unknown transaction status: " + string(update.Status))
	}

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return dto.TransactionResponse{}, err
	}
	if existing == nil {
		return dto.TransactionResponse{}, errs.NewNotFoundError("Transaction not found")
	}

	now := s.clockNow()
	rec, err := s.store.Upsert(ctx, id,
		models.RecordPatch{
			Status:      helpers.Ptr(update.Status),
			LastChecked: now,
		},
		models.HistoryEntry{Status: update.Status, Timestamp: now, Source: models.SourceWebhook})
	if err != nil {
		return dto.TransactionResponse{}, err
	}
	s.cache.Put(rec)

	logger.FromContext(ctx).Info("webhook status applied",
		"transaction_id", id, "status", rec.Status)
	return toResponse(rec, false), nil
}

// verify consults the external verifier with its own deadline on a context
// detached from the caller, so an abandoned request still completes and gets
// persisted. Unavailability degrades to a verification_unavailable result;
// it never fails the resolution.
func (s *resolutionService) verify(ctx context.Context, id, sourceBankHint string) dto.VerifierResult {
	vctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.verifyTimeout)
	defer cancel()

	result, err := s.verifier.Verify(vctx, id, sourceBankHint)
	if err != nil {
		logger.FromContext(ctx).Warn("verifier unavailable, recording degraded outcome",
			"transaction_id", id, "error", err)
		return dto.VerifierResult{
			Status:     models.StatusUnavailable,
			SourceBank: sourceBankHint,
			Amount:     0,
			Reason:     degradedReason,
		}
	}
	return result
}

func (s *resolutionService) persist(ctx context.Context, id string, result dto.VerifierResult, histSource models.HistorySource, meta dto.RequestMeta, now time.Time) (*models.TransactionRecord, error) {
	patch := models.RecordPatch{
		Status:          helpers.Ptr(result.Status),
		SourceBank:      helpers.Ptr(result.SourceBank),
		DestinationBank: helpers.Ptr(result.DestinationBank),
		Amount:          helpers.Ptr(result.Amount),
		LastChecked:     now,
		ExpiresAt:       helpers.Ptr(now.Add(s.recordTTL)),
		Metadata: &models.Metadata{
			IPAddress:        meta.IPAddress,
			UserAgent:        meta.UserAgent,
			VerificationMode: string(s.mode),
		},
	}
	entry := models.HistoryEntry{Status: result.Status, Timestamp: now, Source: histSource}

	// Detached context: once verification happened, the write goes through
	// even if the caller has gone away.
	rec, err := s.store.Upsert(context.WithoutCancel(ctx), id, patch, entry)
	if err != nil {
		return nil, err
	}
	s.cache.Put(rec)
	return rec, nil
}

func toResponse(rec *models.TransactionRecord, cached bool) dto.TransactionResponse {
	history := rec.VerificationHistory
	if history == nil {
		history = []models.HistoryEntry{}
	}
	return dto.TransactionResponse{
		TransactionID:       rec.TransactionID,
		Status:              rec.Status,
		SourceBank:          rec.SourceBank,
		DestinationBank:     rec.DestinationBank,
		Amount:              rec.Amount,
		LastChecked:         rec.LastChecked,
		CheckCount:          rec.CheckCount,
		Cached:              cached,
		VerificationHistory: history,
	}
}
