// internal/common/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"jobmatch-workers/internal/models"
)

// RedisJobCache keeps the job list as one JSON value and the refresh marker
// as epoch milliseconds.
type RedisJobCache struct {
	client redis.Cmdable
	prefix string
}

func NewRedisJobCache(client redis.Cmdable, prefix string) *RedisJobCache {
	return &RedisJobCache{client: client, prefix: prefix}
}

func (c *RedisJobCache) jobsKey() string        { return c.prefix + JobsKey }
func (c *RedisJobCache) lastRefreshKey() string { return c.prefix + LastRefreshKey }

func (c *RedisJobCache) Get(ctx context.Context) ([]models.Job, bool, error) {
	raw, err := c.client.Get(ctx, c.jobsKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		observe("get", nil, false)
		return nil, false, nil
	}
	if err != nil {
		observe("get", err, false)
		return nil, false, fmt.Errorf("get %s: %w", c.jobsKey(), err)
	}

	var jobs []models.Job
	if err := json.Unmarshal(raw, &jobs); err != nil {
		observe("get", err, false)
		return nil, false, fmt.Errorf("decode %s: %w", c.jobsKey(), err)
	}
	observe("get", nil, true)
	return jobs, true, nil
}

// Set replaces the job list in a single write.
func (c *RedisJobCache) Set(ctx context.Context, jobs []models.Job, ttl time.Duration) error {
	if jobs == nil {
		jobs = []models.Job{}
	}
	raw, err := json.Marshal(jobs)
	if err != nil {
		return fmt.Errorf("encode jobs: %w", err)
	}
	err = c.client.Set(ctx, c.jobsKey(), raw, ttl).Err()
	observe("set", err, false)
	if err != nil {
		return fmt.Errorf("set %s: %w", c.jobsKey(), err)
	}
	return nil
}

func (c *RedisJobCache) GetLastRefresh(ctx context.Context) (time.Time, bool, error) {
	raw, err := c.client.Get(ctx, c.lastRefreshKey()).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get %s: %w", c.lastRefreshKey(), err)
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("decode %s: %w", c.lastRefreshKey(), err)
	}
	return time.UnixMilli(ms).UTC(), true, nil
}

func (c *RedisJobCache) SetLastRefresh(ctx context.Context, ts time.Time, ttl time.Duration) error {
	value := strconv.FormatInt(ts.UnixMilli(), 10)
	if err := c.client.Set(ctx, c.lastRefreshKey(), value, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", c.lastRefreshKey(), err)
	}
	return nil
}

func (c *RedisJobCache) Clear(ctx context.Context) error {
	err := c.client.Del(ctx, c.jobsKey(), c.lastRefreshKey()).Err()
	observe("clear", err, false)
	return err
}
