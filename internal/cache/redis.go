// Package cache keeps rendered loan dashboards in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// OpenRedis connects and pings with a short timeout.
func OpenRedis(addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

const dashboardPrefix = "loanops:dashboard:"

// DashboardCache stores one JSON value per loan. A nil *DashboardCache is a
// valid, disabled cache: Get always misses and writes are no-ops.
type DashboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDashboardCache(rdb *redis.Client, ttl time.Duration) *DashboardCache {
	if rdb == nil {
		return nil
	}
	return &DashboardCache{rdb: rdb, ttl: ttl}
}

func dashboardKey(loanID string) string { return dashboardPrefix + loanID }

// Get decodes the cached value into dst and reports whether there was a hit.
func (c *DashboardCache) Get(ctx context.Context, loanID string, dst any) (bool, error) {
	if c == nil {
		return false, nil
	}
	b, err := c.rdb.Get(ctx, dashboardKey(loanID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *DashboardCache) Set(ctx context.Context, loanID string, v any) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, dashboardKey(loanID), b, c.ttl).Err()
}

// Invalidate drops a loan's cached dashboard.
func (c *DashboardCache) Invalidate(ctx context.Context, loanID string) error {
	if c == nil {
		return nil
	}
	return c.rdb.Del(ctx, dashboardKey(loanID)).Err()
}
