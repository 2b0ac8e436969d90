package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tier labels for ResolutionsTotal: which lookup level satisfied a request.
const (
	TierCache    = "cache"
	TierStore    = "store"
	TierVerifier = "verifier"
)

var (
	ResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verify_resolutions_total",
		Help: "Completed transaction resolutions by satisfying tier and resulting status",
	}, []string{"tier", "status"})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verify_cache_hits_total",
		Help: "Record cache hits",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verify_cache_misses_total",
		Help: "Record cache misses (including lazy-expired entries)",
	})

	VerifierLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "verify_verifier_request_duration_seconds",
		Help:    "External verifier call latency",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"outcome"})

	RecordsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verify_records_expired_total",
		Help: "Durable records deleted by the expiry janitor",
	})

	BlockchainRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verify_blockchain_records_total",
		Help: "Chain record submissions by outcome",
	}, []string{"outcome"})
)
