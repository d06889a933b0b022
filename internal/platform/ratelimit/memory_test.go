package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestMemoryLimiter(limit int, window time.Duration) (*MemoryLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(limit, window)
	l.now = clock.Now
	return l, clock
}

func TestMemoryLimiter_AllowsUpToLimit(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestMemoryLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 3, d.Limit)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.InDelta(t, (20 * time.Second).Seconds(), d.RetryAfter.Seconds(), 0.01)
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestMemoryLimiter(1, time.Minute)

	d, _ := l.Allow(ctx, "a")
	assert.True(t, d.Allowed)
	d, _ = l.Allow(ctx, "a")
	assert.False(t, d.Allowed)

	d, _ = l.Allow(ctx, "b")
	assert.True(t, d.Allowed)
}

func TestMemoryLimiter_Refills(t *testing.T) {
	ctx := context.Background()
	l, clock := newTestMemoryLimiter(2, time.Minute)

	for i := 0; i < 2; i++ {
		d, _ := l.Allow(ctx, "client")
		require.True(t, d.Allowed)
	}
	d, _ := l.Allow(ctx, "client")
	require.False(t, d.Allowed)

	clock.Advance(30 * time.Second)
	d, _ = l.Allow(ctx, "client")
	assert.True(t, d.Allowed, "one token refills every window/limit")
}

func TestMemoryLimiter_EvictsIdleClients(t *testing.T) {
	ctx := context.Background()
	l, clock := newTestMemoryLimiter(5, time.Minute)

	_, _ = l.Allow(ctx, "a")
	_, _ = l.Allow(ctx, "b")
	assert.Equal(t, 2, l.Len())

	clock.Advance(2 * time.Minute)
	_, _ = l.Allow(ctx, "c")
	assert.Equal(t, 1, l.Len())
}
