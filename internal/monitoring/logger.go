package monitoring

import (
	"log/slog"
	"os"
	"time"
)

// Logger provides structured logging with pipeline-aware helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new JSON logger at the given level.
func NewLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})

	return &Logger{Logger: slog.New(handler)}
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// RequestLogger logs HTTP request details.
func (l *Logger) RequestLogger(method, path, ip string, statusCode int, duration time.Duration) {
	l.Info("HTTP Request",
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// StageLogger logs completion of one pipeline stage.
func (l *Logger) StageLogger(runID, stage string, itemCount int, duration time.Duration) {
	l.Info("Pipeline Stage Completed",
		"run_id", runID,
		"stage", stage,
		"items", itemCount,
		"duration_ms", duration.Milliseconds(),
	)
}

// DataQualityLogger logs a dropped record or unit. Record-local issues
// are absorbed here, never propagated.
func (l *Logger) DataQualityLogger(reason string, detail any) {
	l.Warn("Record Dropped",
		"reason", reason,
		"detail", detail,
	)
}

// ScoringLogger logs a completed scoring batch.
func (l *Logger) ScoringLogger(runID string, users int, meanOverall float64, duration time.Duration) {
	l.Info("Scoring Completed",
		"run_id", runID,
		"users", users,
		"mean_overall", meanOverall,
		"duration_ms", duration.Milliseconds(),
	)
}

// CacheLogger logs cache operations.
func (l *Logger) CacheLogger(operation, key string, hit bool, itemCount int) {
	l.Debug("Cache Operation",
		"operation", operation,
		"key", key,
		"hit", hit,
		"cache_size", itemCount,
	)
}

// SystemLogger logs system-level events.
func (l *Logger) SystemLogger(event, details string) {
	l.Info("System Event",
		"event", event,
		"details", details,
		"uptime", time.Since(startTime).String(),
	)
}

var startTime = time.Now()
