package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/GregMSThompson/verify-backend/internal/metrics"
)

type janitorStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// ExpiryJanitor periodically deletes durable records whose expiresAt has
// passed, standing in for a storage-level TTL index.
type ExpiryJanitor struct {
	store    janitorStore
	interval time.Duration
	log      *slog.Logger
	clockNow func() time.Time
}

func NewExpiryJanitor(store janitorStore, interval time.Duration, log *slog.Logger) *ExpiryJanitor {
	return &ExpiryJanitor{
		store:    store,
		interval: interval,
		log:      log,
		clockNow: time.Now,
	}
}

// Run sweeps until ctx is cancelled. A failed sweep is logged and retried on
// the next tick.
func (j *ExpiryJanitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := j.store.DeleteExpired(ctx, j.clockNow())
			if err != nil {
				j.log.Warn("expiry sweep failed", "error", err)
				continue
			}
			if deleted > 0 {
				metrics.RecordsExpired.Add(float64(deleted))
				j.log.Info("expired records deleted", "count", deleted)
			}
		}
	}
}
