// internal/common/cache/memory.go
package cache

import (
	"context"
	"sync"
	"time"

	"jobmatch-workers/internal/models"
)

// MemoryJobCache is an in-process JobCache for single-instance deployments
// and tests.
type MemoryJobCache struct {
	mu  sync.RWMutex
	now func() time.Time

	jobs          []models.Job
	jobsExpiry    time.Time
	refreshed     time.Time
	refreshExpiry time.Time
}

func NewMemoryJobCache() *MemoryJobCache {
	return &MemoryJobCache{now: time.Now}
}

// WithClock replaces the time source used for expiry.
func (c *MemoryJobCache) WithClock(now func() time.Time) *MemoryJobCache {
	c.now = now
	return c
}

func (c *MemoryJobCache) live(expiry time.Time) bool {
	return expiry.IsZero() || c.now().Before(expiry)
}

func (c *MemoryJobCache) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(ttl)
}

func (c *MemoryJobCache) Get(ctx context.Context) ([]models.Job, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.jobs == nil || !c.live(c.jobsExpiry) {
		observe("get", nil, false)
		return nil, false, nil
	}
	out := make([]models.Job, len(c.jobs))
	copy(out, c.jobs)
	observe("get", nil, true)
	return out, true, nil
}

func (c *MemoryJobCache) Set(ctx context.Context, jobs []models.Job, ttl time.Duration) error {
	stored := make([]models.Job, len(jobs))
	copy(stored, jobs)

	c.mu.Lock()
	c.jobs = stored
	c.jobsExpiry = c.expiry(ttl)
	c.mu.Unlock()

	observe("set", nil, false)
	return nil
}

func (c *MemoryJobCache) GetLastRefresh(ctx context.Context) (time.Time, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.refreshed.IsZero() || !c.live(c.refreshExpiry) {
		return time.Time{}, false, nil
	}
	return c.refreshed, true, nil
}

func (c *MemoryJobCache) SetLastRefresh(ctx context.Context, ts time.Time, ttl time.Duration) error {
	c.mu.Lock()
	c.refreshed = ts.UTC()
	c.refreshExpiry = c.expiry(ttl)
	c.mu.Unlock()
	return nil
}

func (c *MemoryJobCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.jobs = nil
	c.jobsExpiry = time.Time{}
	c.refreshed = time.Time{}
	c.refreshExpiry = time.Time{}
	c.mu.Unlock()

	observe("clear", nil, false)
	return nil
}
