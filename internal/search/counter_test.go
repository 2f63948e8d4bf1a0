package search

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prospecta/company-search/internal/logging"
	"github.com/prospecta/company-search/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	total int64
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (f *fakeCounter) Count(ctx context.Context, _ Query, _ time.Duration) (int64, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return f.total, f.err
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]int64
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]int64)}
}

func (c *memoryCache) Get(_ context.Context, key string) (int64, bool, error) {
	if c.getErr != nil {
		return 0, false, c.getErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	total, ok := c.entries[key]
	return total, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, total int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = total
	return nil
}

func fullPageQuery(limit, offset int) Query {
	return Compose(models.FilterSet{State: "SP"}, limit, offset)
}

func TestCounter_ShortPageIsExact(t *testing.T) {
	executor := &fakeCounter{total: 999}
	counter := NewCounter(executor, nil, time.Second, logging.NewNop())

	result := counter.Total(context.Background(), fullPageQuery(25, 50), 7)

	assert.Equal(t, CountResult{Total: 57, Source: models.CountSourcePage}, result)
	assert.Zero(t, executor.calls.Load(), "a short page must not trigger a count")
}

func TestCounter_FullPageUsesExactCount(t *testing.T) {
	executor := &fakeCounter{total: 1234}
	counter := NewCounter(executor, nil, time.Second, logging.NewNop())

	result := counter.Total(context.Background(), fullPageQuery(25, 0), 25)

	assert.Equal(t, CountResult{Total: 1234, Source: models.CountSourceCount}, result)
	assert.Equal(t, int32(1), executor.calls.Load())
}

func TestCounter_ExactCountFlooredAtSeenRows(t *testing.T) {
	executor := &fakeCounter{total: 10}
	counter := NewCounter(executor, nil, time.Second, logging.NewNop())

	result := counter.Total(context.Background(), fullPageQuery(25, 100), 25)

	assert.Equal(t, int64(125), result.Total)
	assert.False(t, result.Estimated)
}

func TestCounter_SlowCountDegradesToEstimate(t *testing.T) {
	executor := &fakeCounter{total: 5000, delay: 2 * time.Second}
	counter := NewCounter(executor, nil, 50*time.Millisecond, logging.NewNop())

	start := time.Now()
	result := counter.Total(context.Background(), fullPageQuery(25, 0), 25)

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, CountResult{Total: 250, Source: models.CountSourceEstimate, Estimated: true}, result)
}

func TestCounter_FailedCountDegradesToEstimate(t *testing.T) {
	executor := &fakeCounter{err: errors.New("connection reset")}
	counter := NewCounter(executor, nil, time.Second, logging.NewNop())

	result := counter.Total(context.Background(), fullPageQuery(50, 0), 50)

	assert.Equal(t, CountResult{Total: 500, Source: models.CountSourceEstimate, Estimated: true}, result)
}

func TestCounter_EstimateFlooredAtOffset(t *testing.T) {
	executor := &fakeCounter{err: errors.New("boom")}
	counter := NewCounter(executor, nil, time.Second, logging.NewNop())

	result := counter.Total(context.Background(), fullPageQuery(25, 975), 25)

	assert.Equal(t, int64(1000), result.Total)
	assert.True(t, result.Estimated)
}

func TestCounter_SpentOuterBudgetSkipsCount(t *testing.T) {
	executor := &fakeCounter{total: 42}
	counter := NewCounter(executor, nil, time.Second, logging.NewNop())

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Millisecond))
	defer cancel()

	result := counter.Total(ctx, fullPageQuery(25, 0), 25)

	assert.Equal(t, models.CountSourceEstimate, result.Source)
	assert.Zero(t, executor.calls.Load())
}

func TestCounter_BudgetBoundedByOuterDeadline(t *testing.T) {
	executor := &fakeCounter{total: 42, delay: time.Second}
	counter := NewCounter(executor, nil, 10*time.Second, logging.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	result := counter.Total(ctx, fullPageQuery(25, 0), 25)

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.True(t, result.Estimated)
}

func TestCounter_Cache(t *testing.T) {
	executor := &fakeCounter{total: 300}
	cache := newMemoryCache()
	counter := NewCounter(executor, cache, time.Second, logging.NewNop())
	q := fullPageQuery(25, 0)

	first := counter.Total(context.Background(), q, 25)
	assert.Equal(t, models.CountSourceCount, first.Source)

	second := counter.Total(context.Background(), fullPageQuery(25, 25), 25)
	assert.Equal(t, CountResult{Total: 300, Source: models.CountSourceCache}, second)
	assert.Equal(t, int32(1), executor.calls.Load())
}

func TestCounter_CacheFailureFallsThrough(t *testing.T) {
	executor := &fakeCounter{total: 300}
	cache := newMemoryCache()
	cache.getErr = errors.New("redis down")
	counter := NewCounter(executor, cache, time.Second, logging.NewNop())

	result := counter.Total(context.Background(), fullPageQuery(25, 0), 25)

	assert.Equal(t, CountResult{Total: 300, Source: models.CountSourceCount}, result)
}

func TestCounter_ConcurrentIdenticalCountsShareQuery(t *testing.T) {
	executor := &fakeCounter{total: 777, delay: 100 * time.Millisecond}
	counter := NewCounter(executor, nil, 2*time.Second, logging.NewNop())
	q := fullPageQuery(25, 0)

	var wg sync.WaitGroup
	results := make([]CountResult, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = counter.Total(context.Background(), q, 25)
		}(i)
	}
	wg.Wait()

	for _, result := range results {
		require.Equal(t, int64(777), result.Total)
	}
	assert.Less(t, executor.calls.Load(), int32(8))
}
