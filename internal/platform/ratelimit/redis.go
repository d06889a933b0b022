package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces rate limit counters in Redis.
const KeyPrefix = "bookshelf:ratelimit:"

// RedisLimiter counts requests per client in fixed windows stored in Redis.
type RedisLimiter struct {
	client redis.UniversalClient
	limit  int
	window time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewRedisLimiter allows limit requests per window for each client, sharing
// counters through client.
func NewRedisLimiter(client redis.UniversalClient, limit int, window time.Duration, logger *slog.Logger) *RedisLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		now:    time.Now,
		logger: logger.With(slog.String("component", "redis_rate_limiter")),
	}
}

// NewRedisLimiterFromURL connects to the Redis server at url.
func NewRedisLimiterFromURL(url string, limit int, window time.Duration, logger *slog.Logger) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisLimiter(redis.NewClient(opts), limit, window, logger), nil
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	windowStart := now.Truncate(l.window)
	redisKey := KeyPrefix + key + ":" + strconv.FormatInt(windowStart.UnixMilli(), 10)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.PExpire(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit counter for %s: %w", key, err)
	}

	count := int(incr.Val())
	decision := Decision{Limit: l.limit}
	if count <= l.limit {
		decision.Allowed = true
		decision.Remaining = l.limit - count
		return decision, nil
	}

	decision.RetryAfter = windowStart.Add(l.window).Sub(now)
	l.logger.Debug("rate limit exceeded",
		slog.String("key", key),
		slog.Int("count", count),
		slog.Int("limit", l.limit))
	return decision, nil
}

// Close releases the Redis connection.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
