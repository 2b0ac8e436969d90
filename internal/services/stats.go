package services

import (
	"context"

	"github.com/GregMSThompson/verify-backend/internal/dto"
)

// statsStore is the aggregation surface of the transaction store.
type statsStore interface {
	AggregateStats(ctx context.Context) ([]dto.StatusStats, int64, error)
}

// statsCache exposes cache occupancy.
type statsCache interface {
	Snapshot() dto.CacheSnapshot
}

type statsService struct {
	store statsStore
	cache statsCache
}

func NewStatsService(store statsStore, cache statsCache) *statsService {
	return &statsService{store: store, cache: cache}
}

// GetStats is a pure read rollup; nothing is mutated and nothing is cached.
func (s *statsService) GetStats(ctx context.Context) (dto.StatsResponse, error) {
	byStatus, total, err := s.store.AggregateStats(ctx)
	if err != nil {
		return dto.StatsResponse{}, err
	}
	return dto.StatsResponse{
		Total:    total,
		ByStatus: byStatus,
		Cache:    s.cache.Snapshot(),
	}, nil
}
