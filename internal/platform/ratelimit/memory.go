package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter keeps one token bucket per client in process memory. A
// bucket holds Limit tokens and refills at Limit per window.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	every  rate.Limit
	now    func() time.Time

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter allows limit requests per window for each client.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		every:   rate.Every(window / time.Duration(limit)),
		now:     time.Now,
		clients: make(map[string]*client),
	}
}

// Allow implements Limiter. It never fails.
func (m *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep(now)

	c, ok := m.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(m.every, m.limit)}
		m.clients[key] = c
	}
	c.lastSeen = now

	decision := Decision{Limit: m.limit}
	if c.limiter.AllowN(now, 1) {
		decision.Allowed = true
		decision.Remaining = int(math.Max(0, math.Floor(c.limiter.TokensAt(now))))
		return decision, nil
	}

	// Time until the next token becomes available.
	missing := 1 - c.limiter.TokensAt(now)
	decision.RetryAfter = time.Duration(missing * float64(m.window) / float64(m.limit))
	if decision.RetryAfter <= 0 {
		decision.RetryAfter = time.Second
	}
	return decision, nil
}

// sweep forgets clients idle for longer than a window. A forgotten client
// would have a full bucket again anyway.
func (m *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < m.window {
		return
	}
	m.lastSweep = now

	for key, c := range m.clients {
		if now.Sub(c.lastSeen) > m.window {
			delete(m.clients, key)
		}
	}
}

// Len returns the number of clients currently tracked.
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}
