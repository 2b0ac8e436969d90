package store

import (
	"context"
	"time"

	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/verify-backend/internal/errs"
)

// DeleteExpired removes every record whose expiresAt has passed. This stands
// in for a storage-level TTL index: records age out of the durable store on
// the same schedule the cache ages out its entries.
func (s *transactionStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	iter := s.collection().
		Where("expiresAt", "<", now).
		Select(). // refs only, no document data
		Documents(ctx)
	defer iter.Stop()

	bw := s.client.BulkWriter(ctx)
	deleted := 0
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bw.End()
			return deleted, errs.NewDatabaseError("expire", err.Error())
		}
		if _, err := bw.Delete(snap.Ref); err != nil {
			bw.End()
			return deleted, errs.NewDatabaseError("expire", err.Error())
		}
		deleted++
	}
	bw.End()

	return deleted, nil
}
