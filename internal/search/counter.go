package search

import (
	"context"
	"time"

	"github.com/prospecta/company-search/internal/logging"
	"github.com/prospecta/company-search/internal/models"
	"github.com/prospecta/company-search/internal/observability"
	"github.com/prospecta/company-search/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// estimateMultiplier sizes the degraded estimate: max(rows, limit*estimateMultiplier)
const estimateMultiplier = 10

// cacheWriteTimeout bounds writing an exact count back to the cache
const cacheWriteTimeout = time.Second

// CountCache stores exact totals by query key
type CountCache interface {
	Get(ctx context.Context, key string) (int64, bool, error)
	Set(ctx context.Context, key string, total int64) error
}

// CountResult is a resolved page total
type CountResult struct {
	Total     int64
	Source    string
	Estimated bool
}

type exactCounter interface {
	Count(ctx context.Context, q Query, budget time.Duration) (int64, error)
}

// Counter resolves page totals without blocking on expensive exact counts
type Counter struct {
	executor exactCounter
	cache    CountCache
	budget   time.Duration
	group    singleflight.Group
	logger   *logging.SafeLogger
}

// NewCounter creates a counter whose exact counts are bounded by budget.
// cache may be nil.
func NewCounter(executor exactCounter, cache CountCache, budget time.Duration, logger *logging.SafeLogger) *Counter {
	return &Counter{
		executor: executor,
		cache:    cache,
		budget:   budget,
		logger:   logger,
	}
}

// Total resolves the total for q after a fetch returned rowsReturned rows.
// A short page is exact without any query. A full page tries the cache, then
// an exact count bounded by min(budget, time left on ctx), then falls back
// to an estimate. It never fails.
func (c *Counter) Total(ctx context.Context, q Query, rowsReturned int) CountResult {
	known := int64(q.Offset + rowsReturned)

	if rowsReturned < q.Limit {
		return c.resolved(CountResult{Total: known, Source: models.CountSourcePage})
	}

	budget := c.budget
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < budget {
			budget = remaining
		}
	}
	if budget <= 0 {
		c.logger.Debug("no budget left for exact count, estimating", zap.String("query", q.Key()))
		return c.estimate(q, rowsReturned)
	}

	countCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	key := q.Key()
	if total, ok := c.cached(countCtx, key); ok {
		return c.resolved(CountResult{Total: max(total, known), Source: models.CountSourceCache})
	}

	countCtx, span := utils.TraceDatabaseCount(countCtx, string(q.Shape), budget)
	defer span.End()

	// Identical concurrent counts share one registry query
	ch := c.group.DoChan(key, func() (interface{}, error) {
		return c.executor.Count(countCtx, q, budget)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			utils.RecordErrorInSpan(span, res.Err, map[string]interface{}{"query.shared": res.Shared})
			c.logger.Warn("exact count failed, estimating",
				zap.String("query", key),
				zap.Duration("budget", budget),
				zap.Error(res.Err))
			return c.estimate(q, rowsReturned)
		}
		total := res.Val.(int64)
		utils.AddSpanAttribute(span, "db.total", total)
		c.store(ctx, key, total)
		return c.resolved(CountResult{Total: max(total, known), Source: models.CountSourceCount})
	case <-countCtx.Done():
		utils.RecordErrorInSpan(span, countCtx.Err(), nil)
		c.logger.Warn("exact count exceeded its budget, estimating",
			zap.String("query", key),
			zap.Duration("budget", budget))
		return c.estimate(q, rowsReturned)
	}
}

func (c *Counter) estimate(q Query, rowsReturned int) CountResult {
	total := int64(max(rowsReturned, q.Limit*estimateMultiplier))
	total = max(total, int64(q.Offset+rowsReturned))
	return c.resolved(CountResult{Total: total, Source: models.CountSourceEstimate, Estimated: true})
}

func (c *Counter) resolved(result CountResult) CountResult {
	observability.CountResolutions.WithLabelValues(result.Source).Inc()
	return result
}

func (c *Counter) cached(ctx context.Context, key string) (int64, bool) {
	if c.cache == nil {
		return 0, false
	}
	total, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("count cache read failed", zap.Error(err))
		return 0, false
	}
	return total, ok
}

func (c *Counter) store(ctx context.Context, key string, total int64) {
	if c.cache == nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheWriteTimeout)
	defer cancel()
	if err := c.cache.Set(writeCtx, key, total); err != nil {
		c.logger.Warn("count cache write failed", zap.Error(err))
	}
}
