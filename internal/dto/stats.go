package dto

import (
	"github.com/GregMSThompson/verify-backend/internal/models"
)

// StatusStats is the rollup for a single status.
type StatusStats struct {
	Status      models.Status `json:"status"`
	Count       int64         `json:"count"`
	TotalAmount int64         `json:"totalAmount"`
}

// CacheSnapshot describes current cache occupancy.
type CacheSnapshot struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	Total    int64         `json:"total"`
	ByStatus []StatusStats `json:"byStatus"`
	Cache    CacheSnapshot `json:"cacheStats"`
}
