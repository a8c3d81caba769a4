package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds application and pipeline metrics.
type Metrics struct {
	RequestCount int64
	ErrorCount   int64
	CacheHits    int64
	CacheMisses  int64
	StartTime    time.Time

	// Pipeline counters
	RunsStarted    int64
	RunsCompleted  int64
	RunsFailed     int64
	RunsRejected   int64
	RecordsLoaded  int64
	RecordsDropped int64
	UsersScored    int64

	// Rate limit counters
	RateLimitBlocks        int64
	RateLimitRedisErrors   int64
	RateLimitFallbackCount int64

	// Response time tracking for percentiles
	ResponseTimes      []time.Duration
	ResponseTimesMutex sync.RWMutex

	RequestCountByStatus map[int]int64
	StatusMutex          sync.RWMutex
}

// NewMetrics creates a new metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:            time.Now(),
		ResponseTimes:        make([]time.Duration, 0, 1000),
		RequestCountByStatus: make(map[int]int64),
	}
}

// IncrementRequest increments the request count.
func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

// IncrementError increments the error count.
func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

// IncrementCacheHit increments the cache hit count.
func (m *Metrics) IncrementCacheHit() {
	atomic.AddInt64(&m.CacheHits, 1)
}

// IncrementCacheMiss increments the cache miss count.
func (m *Metrics) IncrementCacheMiss() {
	atomic.AddInt64(&m.CacheMisses, 1)
}

// RecordRunStarted counts a successfully acquired pipeline run slot.
func (m *Metrics) RecordRunStarted() {
	atomic.AddInt64(&m.RunsStarted, 1)
}

// RecordRunCompleted counts a run that published a snapshot.
func (m *Metrics) RecordRunCompleted() {
	atomic.AddInt64(&m.RunsCompleted, 1)
}

// RecordRunFailed counts an aborted run.
func (m *Metrics) RecordRunFailed() {
	atomic.AddInt64(&m.RunsFailed, 1)
}

// RecordRunRejected counts a trigger refused because a run was in flight.
func (m *Metrics) RecordRunRejected() {
	atomic.AddInt64(&m.RunsRejected, 1)
}

// AddRecordsLoaded accumulates records read from the store.
func (m *Metrics) AddRecordsLoaded(n int) {
	atomic.AddInt64(&m.RecordsLoaded, int64(n))
}

// AddRecordsDropped accumulates records discarded for data quality.
func (m *Metrics) AddRecordsDropped(n int) {
	atomic.AddInt64(&m.RecordsDropped, int64(n))
}

// SetUsersScored records the population size of the latest run.
func (m *Metrics) SetUsersScored(n int) {
	atomic.StoreInt64(&m.UsersScored, int64(n))
}

// IncrementRateLimitBlock counts a blocked request.
func (m *Metrics) IncrementRateLimitBlock() {
	atomic.AddInt64(&m.RateLimitBlocks, 1)
}

// IncrementRateLimitRedisError counts a redis failure during limiting.
func (m *Metrics) IncrementRateLimitRedisError() {
	atomic.AddInt64(&m.RateLimitRedisErrors, 1)
}

// IncrementRateLimitFallback counts use of the in-memory fallback.
func (m *Metrics) IncrementRateLimitFallback() {
	atomic.AddInt64(&m.RateLimitFallbackCount, 1)
}

// RecordResponseTime stores a response time sample, bounded at 1000.
func (m *Metrics) RecordResponseTime(d time.Duration) {
	m.ResponseTimesMutex.Lock()
	defer m.ResponseTimesMutex.Unlock()

	m.ResponseTimes = append(m.ResponseTimes, d)
	if len(m.ResponseTimes) > 1000 {
		m.ResponseTimes = m.ResponseTimes[1:]
	}
}

// RecordRequestByStatus tracks request counts per status code.
func (m *Metrics) RecordRequestByStatus(status int) {
	m.StatusMutex.Lock()
	defer m.StatusMutex.Unlock()
	m.RequestCountByStatus[status]++
}

// ResponseTimePercentile returns the given percentile of recorded
// response times, or 0 with no samples.
func (m *Metrics) ResponseTimePercentile(p float64) time.Duration {
	m.ResponseTimesMutex.RLock()
	defer m.ResponseTimesMutex.RUnlock()

	if len(m.ResponseTimes) == 0 {
		return 0
	}

	sorted := append([]time.Duration(nil), m.ResponseTimes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := int(float64(len(sorted)-1) * p / 100)
	return sorted[idx]
}

// GetStats returns a point-in-time view of all metrics.
func (m *Metrics) GetStats() map[string]interface{} {
	m.StatusMutex.RLock()
	byStatus := make(map[int]int64, len(m.RequestCountByStatus))
	for k, v := range m.RequestCountByStatus {
		byStatus[k] = v
	}
	m.StatusMutex.RUnlock()

	return map[string]interface{}{
		"request_count":       atomic.LoadInt64(&m.RequestCount),
		"error_count":         atomic.LoadInt64(&m.ErrorCount),
		"cache_hits":          atomic.LoadInt64(&m.CacheHits),
		"cache_misses":        atomic.LoadInt64(&m.CacheMisses),
		"runs_started":        atomic.LoadInt64(&m.RunsStarted),
		"runs_completed":      atomic.LoadInt64(&m.RunsCompleted),
		"runs_failed":         atomic.LoadInt64(&m.RunsFailed),
		"runs_rejected":       atomic.LoadInt64(&m.RunsRejected),
		"records_loaded":      atomic.LoadInt64(&m.RecordsLoaded),
		"records_dropped":     atomic.LoadInt64(&m.RecordsDropped),
		"users_scored":        atomic.LoadInt64(&m.UsersScored),
		"rate_limit_blocks":   atomic.LoadInt64(&m.RateLimitBlocks),
		"response_p50_ms":     m.ResponseTimePercentile(50).Milliseconds(),
		"response_p95_ms":     m.ResponseTimePercentile(95).Milliseconds(),
		"requests_by_status":  byStatus,
		"uptime_seconds":      time.Since(m.StartTime).Seconds(),
	}
}
