package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"

	"github.com/GregMSThompson/verify-backend/internal/errs"
	"github.com/GregMSThompson/verify-backend/internal/models"
)

type transactionStore struct {
	client *firestore.Client
}

func NewTransactionStore(client *firestore.Client) *transactionStore {
	return &transactionStore{client: client}
}

func (s *transactionStore) collection() *firestore.CollectionRef {
	return s.client.Collection("transactions")
}

// FindByID returns the record for a normalized transaction id, or nil when
// no record exists.
func (s *transactionStore) FindByID(ctx context.Context, id string) (*models.TransactionRecord, error) {
	snap, err := s.collection().Doc(id).Get(ctx)
	if err != nil {
		if grpcstatus.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, errs.NewDatabaseError("find", err.Error())
	}
	var rec models.TransactionRecord
	if err := snap.DataTo(&rec); err != nil {
		return nil, errs.NewDatabaseError("find", err.Error())
	}
	return &rec, nil
}

// Upsert applies patch to the record for id, increments checkCount, and
// appends entry to the verification history, creating the record with
// checkCount = 1 when absent. The whole read-modify-write runs inside a
// Firestore transaction, so concurrent upserts for the same id serialize per
// key: no duplicate documents, no lost history entries.
func (s *transactionStore) Upsert(ctx context.Context, id string, patch models.RecordPatch, entry models.HistoryEntry) (*models.TransactionRecord, error) {
	doc := s.collection().Doc(id)
	var out models.TransactionRecord

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(doc)
		exists := true
		if err != nil {
			if grpcstatus.Code(err) != codes.NotFound {
				return err
			}
			exists = false
		}

		var rec models.TransactionRecord
		if exists {
			if err := snap.DataTo(&rec); err != nil {
				return err
			}
			rec.CheckCount++
		} else {
			rec = models.TransactionRecord{
				TransactionID: id,
				CheckCount:    1,
				CreatedAt:     patch.LastChecked,
			}
		}

		applyPatch(&rec, patch)
		rec.LastChecked = patch.LastChecked
		rec.UpdatedAt = patch.LastChecked
		rec.VerificationHistory = append(rec.VerificationHistory, entry)

		out = rec
		return tx.Set(doc, rec)
	})
	if err != nil {
		return nil, errs.NewDatabaseError("upsert", err.Error())
	}
	return &out, nil
}

func applyPatch(rec *models.TransactionRecord, patch models.RecordPatch) {
	if patch.Status != nil {
		rec.Status = *patch.Status
	}
	if patch.SourceBank != nil {
		rec.SourceBank = *patch.SourceBank
	}
	if patch.DestinationBank != nil {
		rec.DestinationBank = *patch.DestinationBank
	}
	if patch.Amount != nil {
		rec.Amount = *patch.Amount
	}
	if patch.ExpiresAt != nil {
		rec.ExpiresAt = *patch.ExpiresAt
	}
	if patch.Metadata != nil {
		rec.Metadata = *patch.Metadata
	}
}

// Delete removes the record for id. Missing records are not an error.
func (s *transactionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.collection().Doc(id).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", err.Error())
	}
	return nil
}
