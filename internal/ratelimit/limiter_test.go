package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLimiter(t *testing.T, cfg Config) *Limiter {
	t.Helper()
	// empty address keeps Redis disabled and exercises the in-memory path
	client, err := NewRedisClient("")
	require.NoError(t, err)
	require.False(t, client.IsEnabled())
	return NewLimiter(client, cfg, nil)
}

func TestAllowTriggerFallbackBurst(t *testing.T) {
	limiter := testLimiter(t, Config{TriggerLimitPerMin: 6, BurstMultiplier: 2})
	ctx := context.Background()

	// token bucket starts full at burst capacity
	burst := 6 * 2
	for i := 0; i < burst; i++ {
		res, err := limiter.AllowTrigger(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d within burst should pass", i)
		assert.Equal(t, 6, res.Limit)
	}

	res, err := limiter.AllowTrigger(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Positive(t, res.RetryAfter)
}

func TestAllowTriggerPerIPIsolation(t *testing.T) {
	limiter := testLimiter(t, Config{TriggerLimitPerMin: 1, BurstMultiplier: 1})
	ctx := context.Background()

	// minimum burst of 2 applies when limit*multiplier is below it
	for i := 0; i < 2; i++ {
		res, err := limiter.AllowTrigger(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
	res, err := limiter.AllowTrigger(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	// a different client still has a full bucket
	other, err := limiter.AllowTrigger(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestGetStats(t *testing.T) {
	limiter := testLimiter(t, DefaultConfig())
	_, err := limiter.AllowTrigger(context.Background(), "10.0.0.1")
	require.NoError(t, err)

	stats := limiter.GetStats()
	assert.Equal(t, false, stats["redis_enabled"])
	assert.Equal(t, 1, stats["fallback_limiters"])
	assert.Equal(t, 6, stats["trigger_limit"])
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 6, cfg.TriggerLimitPerMin)
	assert.Equal(t, 2, cfg.BurstMultiplier)
}
