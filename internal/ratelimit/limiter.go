package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"golang.org/x/time/rate"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/monitoring"
)

// Config holds trigger limiter configuration.
type Config struct {
	TriggerLimitPerMin int // per-IP limit on pipeline trigger endpoints
	BurstMultiplier    int // burst capacity multiplier for the fallback buckets
}

// DefaultConfig returns the default trigger limiting configuration.
func DefaultConfig() Config {
	return Config{
		TriggerLimitPerMin: 6,
		BurstMultiplier:    2,
	}
}

// Result represents the outcome of a limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter guards the expensive pipeline trigger endpoints. Scoring runs load
// the full interaction table, so triggers are limited per client IP with a
// Redis sliding window when available and in-memory token buckets otherwise.
type Limiter struct {
	redisLimiter *redis_rate.Limiter
	redisClient  *RedisClient
	config       Config
	metrics      *monitoring.Metrics

	fallbackLimiters map[string]*rate.Limiter
	fallbackMutex    sync.RWMutex
}

// NewLimiter creates a trigger limiter with Redis and in-memory fallback.
func NewLimiter(redisClient *RedisClient, config Config, metrics *monitoring.Metrics) *Limiter {
	l := &Limiter{
		redisClient:      redisClient,
		config:           config,
		metrics:          metrics,
		fallbackLimiters: make(map[string]*rate.Limiter),
	}

	if redisClient.IsEnabled() {
		l.redisLimiter = redis_rate.NewLimiter(redisClient.GetClient())
		slog.Info("Redis trigger limiter initialized")
	} else {
		slog.Warn("Redis unavailable, using in-memory trigger limiting only")
	}

	go l.cleanupFallbackLimiters()

	return l
}

// AllowTrigger checks whether a client IP may start another pipeline run.
func (l *Limiter) AllowTrigger(ctx context.Context, ip string) (*Result, error) {
	key := fmt.Sprintf("triggerlimit:ip:%s", ip)
	return l.allow(ctx, key, l.config.TriggerLimitPerMin, time.Minute)
}

func (l *Limiter) allow(ctx context.Context, key string, limit int, period time.Duration) (*Result, error) {
	if l.redisClient.IsEnabled() && l.redisLimiter != nil {
		result, err := l.allowRedis(ctx, key, limit, period)
		if err != nil {
			slog.Warn("Redis trigger limit check failed, using fallback", "key", key, "error", err)
			if l.metrics != nil {
				l.metrics.IncrementRateLimitRedisError()
			}
			return l.allowFallback(key, limit, period)
		}
		return result, nil
	}

	if l.metrics != nil {
		l.metrics.IncrementRateLimitFallback()
	}
	return l.allowFallback(key, limit, period)
}

func (l *Limiter) allowRedis(ctx context.Context, key string, limit int, period time.Duration) (*Result, error) {
	res, err := l.redisLimiter.Allow(ctx, key, redis_rate.Limit{
		Rate:   limit,
		Burst:  limit,
		Period: period,
	})
	if err != nil {
		return nil, fmt.Errorf("redis trigger limit check failed: %w", err)
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		Limit:      res.Limit.Rate,
		Remaining:  res.Remaining,
		ResetAt:    time.Now().Add(res.ResetAfter),
		RetryAfter: res.RetryAfter,
	}, nil
}

func (l *Limiter) allowFallback(key string, limit int, period time.Duration) (*Result, error) {
	l.fallbackMutex.Lock()
	limiter, exists := l.fallbackLimiters[key]
	if !exists {
		rps := rate.Limit(float64(limit) / period.Seconds())
		burst := limit * l.config.BurstMultiplier
		if burst < 2 {
			burst = 2
		}
		limiter = rate.NewLimiter(rps, burst)
		l.fallbackLimiters[key] = limiter
	}
	l.fallbackMutex.Unlock()

	allowed := limiter.Allow()

	tokens := limiter.Tokens()
	remaining := int(tokens)
	if remaining < 0 {
		remaining = 0
	}

	result := &Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(period),
	}
	if !allowed {
		result.RetryAfter = time.Until(result.ResetAt)
	}

	return result, nil
}

func (l *Limiter) cleanupFallbackLimiters() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		l.fallbackMutex.Lock()
		if len(l.fallbackLimiters) > 1000 {
			slog.Info("Cleaning up fallback trigger limiters", "count", len(l.fallbackLimiters))
			l.fallbackLimiters = make(map[string]*rate.Limiter)
		}
		l.fallbackMutex.Unlock()
	}
}

// GetStats returns limiter statistics for the health endpoint.
func (l *Limiter) GetStats() map[string]interface{} {
	l.fallbackMutex.RLock()
	fallbackCount := len(l.fallbackLimiters)
	l.fallbackMutex.RUnlock()

	return map[string]interface{}{
		"redis_enabled":     l.redisClient.IsEnabled(),
		"fallback_limiters": fallbackCount,
		"trigger_limit":     l.config.TriggerLimitPerMin,
	}
}
