package store

import (
	"context"
	"fmt"
	"sync"

	firestorepb "cloud.google.com/go/firestore/apiv1/firestorepb"
	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/verify-backend/internal/dto"
	"github.com/GregMSThompson/verify-backend/internal/errs"
	"github.com/GregMSThompson/verify-backend/internal/models"
)

// AggregateStats rolls up count and total amount per status plus the overall
// record count. Each status runs its own aggregation query; they are
// independent reads, so they fan out under an errgroup.
func (s *transactionStore) AggregateStats(ctx context.Context) ([]dto.StatusStats, int64, error) {
	byStatus := make([]dto.StatusStats, len(models.AllStatuses))
	var total int64
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)

	for i, st := range models.AllStatuses {
		g.Go(func() error {
			q := s.collection().
				Where("status", "==", string(st))
			res, err := q.
				NewAggregationQuery().
				WithCount("count").
				WithSum("amount", "totalAmount").
				Get(gctx)
			if err != nil {
				return err
			}
			count, err := aggregationInt(res, "count")
			if err != nil {
				return err
			}
			amount, err := aggregationInt(res, "totalAmount")
			if err != nil {
				return err
			}
			mu.Lock()
			byStatus[i] = dto.StatusStats{Status: st, Count: count, TotalAmount: amount}
			total += count
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, errs.NewDatabaseError("aggregate", err.Error())
	}
	return byStatus, total, nil
}

// aggregationInt unwraps an aggregation alias into an int64. Firestore
// reports sums over integer fields as integers, but an empty result set
// yields a double zero, so both encodings are accepted.
func aggregationInt(res map[string]interface{}, alias string) (int64, error) {
	raw, ok := res[alias]
	if !ok {
		return 0, fmt.Errorf("aggregation alias %q missing", alias)
	}
	v, ok := raw.(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("aggregation alias %q has unexpected type %T", alias, raw)
	}
	switch v.ValueType.(type) {
	case *firestorepb.Value_IntegerValue:
		return v.GetIntegerValue(), nil
	case *firestorepb.Value_DoubleValue:
		return int64(v.GetDoubleValue()), nil
	default:
		return 0, fmt.Errorf("aggregation alias %q is not numeric", alias)
	}
}
