package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("stats cache miss")

type FollowStats struct {
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
}

// StatsCache keeps follow stats in Redis under a short TTL. It is an
// optimization only: callers fall back to counting from the database when
// the cache is unavailable or cold.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(redisURL string, ttl time.Duration) (*StatsCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &StatsCache{client: client, ttl: ttl}, nil
}

func statsKey(memberID int64) string {
	return fmt.Sprintf("follow:stats:%d", memberID)
}

func (c *StatsCache) Get(ctx context.Context, memberID int64) (*FollowStats, error) {
	raw, err := c.client.Get(ctx, statsKey(memberID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	var stats FollowStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *StatsCache) Set(ctx context.Context, memberID int64, stats *FollowStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey(memberID), raw, c.ttl).Err()
}

// Invalidate drops the cached stats for a member so the next read recounts
// from the source-of-truth table.
func (c *StatsCache) Invalidate(ctx context.Context, memberID int64) error {
	return c.client.Del(ctx, statsKey(memberID)).Err()
}

func (c *StatsCache) Close() error {
	return c.client.Close()
}
