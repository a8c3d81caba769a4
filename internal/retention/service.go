// Package retention enforces data retention over the interaction store.
// Raw interaction logs and historical score snapshots are pruned on a
// schedule; the published in-memory snapshot is never touched.
package retention

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/store"
)

// Service prunes aged rows from the sqlite store.
type Service struct {
	db *store.DB
}

// NewService creates a retention service.
func NewService(db *store.DB) *Service {
	return &Service{db: db}
}

// PurgeInteractions deletes interaction records older than the
// retention window and any dataset metadata no longer referenced.
func (s *Service) PurgeInteractions(retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	res, err := s.db.Exec("DELETE FROM interactions WHERE ts < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old interactions: %w", err)
	}
	rows, _ := res.RowsAffected()

	_, err = s.db.Exec(`
		DELETE FROM dataset_metadata
		WHERE record_id NOT IN (SELECT DISTINCT record_id FROM interactions)
	`)
	if err != nil {
		slog.Warn("Failed to prune orphaned dataset metadata", "error", err)
	}

	if rows > 0 {
		slog.Info("Interaction retention applied", "cutoff", cutoff, "rows_deleted", rows)
	}
	return rows, nil
}

// PurgeSnapshots keeps only the most recent keep score snapshots.
// At least one snapshot always survives so restarts can rehydrate.
func (s *Service) PurgeSnapshots(keep int) (int64, error) {
	if keep < 1 {
		keep = 1
	}

	res, err := s.db.Exec(`
		DELETE FROM score_snapshots
		WHERE run_id NOT IN (
			SELECT run_id FROM score_snapshots ORDER BY created_at DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune score snapshots: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows, nil
}

// RetentionInfo describes the active retention policy.
func (s *Service) RetentionInfo(retentionDays, snapshotsKept int) map[string]interface{} {
	return map[string]interface{}{
		"interaction_retention_days": retentionDays,
		"score_snapshots_kept":       snapshotsKept,
		"identity_model":             "synthetic fingerprint ids, no personal identifiers stored",
	}
}

// StartDailyCleanup runs the purge on a daily ticker until stop is
// closed.
func (s *Service) StartDailyCleanup(retentionDays, snapshotsKept int, stop <-chan struct{}) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if _, err := s.PurgeInteractions(retentionDays); err != nil {
				slog.Error("Failed to apply interaction retention", "error", err)
			}
			if _, err := s.PurgeSnapshots(snapshotsKept); err != nil {
				slog.Error("Failed to prune score snapshots", "error", err)
			}
		}
	}
}
