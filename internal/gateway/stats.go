package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type StatsEvent struct {
	Key     string
	Allowed bool
	Method  string
	Path    string
	At      time.Time
}

// StatsStore records per-minute allowed/denied counters for gateway
// traffic. Recording is best effort; failures never block a request.
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}

type RedisStatsStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStatsStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStatsStore {
	if prefix == "" {
		prefix = "gateway:stats"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStatsStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStatsStore) Record(ctx context.Context, ev StatsEvent) error {
	outcome := "allowed"
	if !ev.Allowed {
		outcome = "denied"
	}
	bucket := ev.At.UTC().Format("200601021504") // minute resolution

	totalKey := fmt.Sprintf("%s:%s:%s", s.prefix, bucket, outcome)
	keyKey := fmt.Sprintf("%s:%s:%s:%s", s.prefix, bucket, outcome, ev.Key)

	pipe := s.rdb.Pipeline()
	pipe.Incr(ctx, totalKey)
	pipe.Expire(ctx, totalKey, s.ttl)
	pipe.Incr(ctx, keyKey)
	pipe.Expire(ctx, keyKey, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}
