package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/GregMSThompson/verify-backend/internal/dto"
	"github.com/GregMSThompson/verify-backend/internal/metrics"
	"github.com/GregMSThompson/verify-backend/internal/models"
)

const sweepInterval = 10 * time.Minute

// TransactionCache is the in-process record cache. Keys are normalized
// transaction ids, identical to the Firestore document ids. Pending records
// get the short TTL so they are re-verified quickly; every other status gets
// the long TTL. Size is unbounded; at the expected scale TTL eviction is
// enough.
type TransactionCache struct {
	c          *gocache.Cache
	pendingTTL time.Duration
	defaultTTL time.Duration
}

func NewTransactionCache(pendingTTL, defaultTTL time.Duration) *TransactionCache {
	return &TransactionCache{
		c:          gocache.New(defaultTTL, sweepInterval),
		pendingTTL: pendingTTL,
		defaultTTL: defaultTTL,
	}
}

// Get returns the cached record for id, or nil. Expired entries are treated
// as absent; go-cache checks the deadline on read and the background sweep
// evicts the leftovers.
func (tc *TransactionCache) Get(id string) *models.TransactionRecord {
	obj, found := tc.c.Get(id)
	if !found {
		metrics.CacheMisses.Inc()
		return nil
	}
	metrics.CacheHits.Inc()
	rec := obj.(models.TransactionRecord)
	return &rec
}

// Put stores a copy of rec under its transaction id with the TTL appropriate
// to its status.
func (tc *TransactionCache) Put(rec *models.TransactionRecord) {
	ttl := tc.defaultTTL
	if rec.Status == models.StatusPending {
		ttl = tc.pendingTTL
	}
	tc.c.Set(rec.TransactionID, *rec, ttl)
}

func (tc *TransactionCache) Invalidate(id string) {
	tc.c.Delete(id)
}

// Snapshot reports current occupancy. Keys may include entries that expire
// between the call and its use; callers treat this as informational only.
func (tc *TransactionCache) Snapshot() dto.CacheSnapshot {
	items := tc.c.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	return dto.CacheSnapshot{
		Size: len(keys),
		Keys: keys,
	}
}
