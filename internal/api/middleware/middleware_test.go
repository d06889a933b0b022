package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/bookshelf-api/internal/api"
	"github.com/phrazzld/bookshelf-api/internal/api/middleware"
	"github.com/phrazzld/bookshelf-api/internal/api/shared"
	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
	"github.com/phrazzld/bookshelf-api/internal/platform/metrics"
	"github.com/phrazzld/bookshelf-api/internal/platform/ratelimit"
	"github.com/phrazzld/bookshelf-api/internal/testutils"
)

func TestTrace(t *testing.T) {
	log, buf := logger.NewTestLogger(t)

	var seenTraceID string
	var ctxLogger bool
	h := middleware.Trace(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTraceID = shared.GetTraceID(r.Context())
		ctxLogger = logger.FromContext(r.Context()) != nil
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/authors", nil))

	_, err := uuid.Parse(seenTraceID)
	require.NoError(t, err)
	assert.True(t, ctxLogger)
	assert.Equal(t, seenTraceID, rr.Header().Get(shared.TraceIDHeader))

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, "request completed", last["msg"])
	assert.Equal(t, seenTraceID, last["trace_id"])
	assert.Equal(t, float64(http.StatusTeapot), last["status"])
	assert.Equal(t, "/authors", last["path"])
}

func TestRecover(t *testing.T) {
	h := middleware.Recover(api.HandleAPIError)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/authors", nil))
	})

	testutils.AssertErrorResponse(t, rr, http.StatusInternalServerError,
		"InternalServerError", "An internal server error occurred.")
	assert.NotContains(t, rr.Body.String(), "boom")
}

type stubLimiter struct {
	decision ratelimit.Decision
	err      error
	keys     []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (ratelimit.Decision, error) {
	s.keys = append(s.keys, key)
	return s.decision, s.err
}

func limitedRouter(limiter ratelimit.Limiter, onLimited func(string)) http.Handler {
	r := chi.NewRouter()
	r.With(middleware.RateLimit(middleware.RateLimitOptions{
		Limiter:   limiter,
		Window:    time.Minute,
		OnLimited: onLimited,
	}, api.HandleAPIError)).Get("/books/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestRateLimit_Allowed(t *testing.T) {
	limiter := &stubLimiter{decision: ratelimit.Decision{Allowed: true, Limit: 10, Remaining: 9}}

	req := httptest.NewRequest(http.MethodGet, "/books/1", nil)
	req.RemoteAddr = "192.0.2.10:51234"
	rr := httptest.NewRecorder()
	limitedRouter(limiter, nil).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "10", rr.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", rr.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, []string{"192.0.2.10"}, limiter.keys)
}

func TestRateLimit_Rejected(t *testing.T) {
	limiter := &stubLimiter{decision: ratelimit.Decision{Limit: 10, RetryAfter: 1500 * time.Millisecond}}

	var limitedRoute string
	rr := httptest.NewRecorder()
	limitedRouter(limiter, func(route string) { limitedRoute = route }).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/books/1", nil))

	testutils.AssertErrorResponse(t, rr, http.StatusTooManyRequests,
		"TooManyRequestsError", "Rate limit exceeded, retry in 1 minute")
	assert.Equal(t, "2", rr.Header().Get("Retry-After"))
	assert.Equal(t, "/books/{id}", limitedRoute)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("redis down")}

	rr := httptest.NewRecorder()
	limitedRouter(limiter, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/books/1", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimit_WithMemoryLimiter(t *testing.T) {
	h := limitedRouter(ratelimit.NewMemoryLimiter(2, time.Minute), nil)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/books/1", nil))
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestMetrics(t *testing.T) {
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(middleware.Metrics(m))
	r.Get("/authors/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Delete("/authors/{id}", func(w http.ResponseWriter, r *http.Request) {})

	for _, target := range []string{"/authors/a", "/authors/b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/authors/a", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()

	assert.Contains(t, body, `bookshelf_http_requests_total{method="GET",route="/authors/{id}",status="404"} 2`)
	assert.Contains(t, body, `bookshelf_http_requests_total{method="DELETE",route="/authors/{id}",status="200"} 1`)
	assert.Contains(t, body, `route="unmatched"`)
	count, err := testutil.GatherAndCount(m.Registry(), "bookshelf_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
