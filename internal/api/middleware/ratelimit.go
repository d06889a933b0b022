package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/bookshelf-api/internal/apperr"
	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
	"github.com/phrazzld/bookshelf-api/internal/platform/ratelimit"
)

// RateLimitOptions configures RateLimit.
type RateLimitOptions struct {
	Limiter ratelimit.Limiter
	// Window is reported in the error message.
	Window time.Duration
	// OnLimited, if set, is called for every rejected request with the
	// matched route pattern.
	OnLimited func(route string)
}

// RateLimit rejects clients that exceed their budget with a
// TooManyRequestsError. Clients are keyed by remote IP, so it should run
// after middleware.RealIP. Limiter failures let the request through.
func RateLimit(opts RateLimitOptions, handleError ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, err := opts.Limiter.Allow(r.Context(), clientKey(r))
			if err != nil {
				logger.FromContextOrDefault(r.Context(), slog.Default()).
					Warn("rate limiter unavailable, allowing request",
						slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

			if decision.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Retry-After", strconv.Itoa(int(math.Ceil(decision.RetryAfter.Seconds()))))
			if opts.OnLimited != nil {
				route := routePattern(r)
				if route == "" {
					route = r.URL.Path
				}
				opts.OnLimited(route)
			}
			handleError(w, r, apperr.TooManyRequests("Rate limit exceeded, retry in "+humanize(opts.Window)))
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// routePattern returns the chi pattern matched by r, or "".
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

// humanize renders d the way people say it: "1 minute", "30 seconds".
func humanize(d time.Duration) string {
	units := []struct {
		size time.Duration
		name string
	}{
		{time.Hour, "hour"},
		{time.Minute, "minute"},
		{time.Second, "second"},
	}

	for _, u := range units {
		if d >= u.size && d%u.size == 0 {
			n := int64(d / u.size)
			if n == 1 {
				return fmt.Sprintf("1 %s", u.name)
			}
			return fmt.Sprintf("%d %ss", n, u.name)
		}
	}
	return d.String()
}
