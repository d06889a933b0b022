package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/bookshelf-api/internal/config"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed bool
	// Limit is the number of requests permitted per window.
	Limit int
	// Remaining is how many requests the client may still send in the
	// current window.
	Remaining int
	// RetryAfter is how long a rejected client should wait.
	RetryAfter time.Duration
}

// Limiter tracks request budgets per client key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// New builds the limiter selected by cfg.Backend.
func New(cfg config.RateLimitConfig, logger *slog.Logger) (Limiter, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryLimiter(cfg.Requests, cfg.Window), nil
	case "redis":
		return NewRedisLimiterFromURL(cfg.RedisURL, cfg.Requests, cfg.Window, logger)
	default:
		return nil, fmt.Errorf("unknown rate limit backend %q", cfg.Backend)
	}
}
