package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/monitoring"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

// Repository handles database operations for the pipeline's feeds.
type Repository struct {
	db     *DB
	logger *monitoring.Logger
}

// NewRepository creates a new repository.
func NewRepository(db *DB, logger *monitoring.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// InsertInteractions bulk-inserts interaction records in one
// transaction.
func (r *Repository) InsertInteractions(records []types.InteractionRecord) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO interactions (user_id, session_id, ts, event_type, record_id, referrer)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(rec.UserID, rec.SessionID, rec.Timestamp, rec.EventType, rec.RecordID, rec.Referrer); err != nil {
			return fmt.Errorf("failed to insert interaction: %w", err)
		}
	}

	return tx.Commit()
}

// LoadInteractions returns up to limit interaction records ordered by
// timestamp. Rows with an unparsable timestamp are skipped with a
// warning rather than failing the load.
func (r *Repository) LoadInteractions(limit int) ([]types.InteractionRecord, error) {
	rows, err := r.db.Query(`
		SELECT user_id, session_id, ts, event_type, record_id, referrer
		FROM interactions
		ORDER BY ts
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	records := make([]types.InteractionRecord, 0)
	skipped := 0
	for rows.Next() {
		var rec types.InteractionRecord
		var userID, recordID, referrer sql.NullString
		if err := rows.Scan(&userID, &rec.SessionID, &rec.Timestamp, &rec.EventType, &recordID, &referrer); err != nil {
			skipped++
			r.logger.DataQualityLogger("unscannable_interaction_row", err.Error())
			continue
		}
		rec.UserID = userID.String
		rec.RecordID = recordID.String
		rec.Referrer = referrer.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interactions: %w", err)
	}

	if skipped > 0 {
		r.logger.Warn("Skipped malformed interaction rows", "count", skipped)
	}
	return records, nil
}

// CountInteractions returns the number of stored interaction records.
func (r *Repository) CountInteractions() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM interactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count interactions: %w", err)
	}
	return n, nil
}

// UpsertMetadata stores dataset metadata rows. Subjects are persisted
// as a pipe-separated list.
func (r *Repository) UpsertMetadata(recordID, title string, subjects []string) error {
	_, err := r.db.Exec(`
		INSERT INTO dataset_metadata (record_id, title, subjects)
		VALUES (?, ?, ?)
		ON CONFLICT(record_id) DO UPDATE SET title = excluded.title, subjects = excluded.subjects
	`, recordID, title, strings.Join(subjects, "|"))
	if err != nil {
		return fmt.Errorf("failed to upsert metadata: %w", err)
	}
	return nil
}

// LoadSubjectsByRecord returns each record's subject labels, keyed by
// record id. Empty subject lists are omitted.
func (r *Repository) LoadSubjectsByRecord() (map[string][]string, error) {
	rows, err := r.db.Query(`SELECT record_id, subjects FROM dataset_metadata`)
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	subjects := make(map[string][]string)
	for rows.Next() {
		var recordID string
		var raw sql.NullString
		if err := rows.Scan(&recordID, &raw); err != nil {
			r.logger.DataQualityLogger("unscannable_metadata_row", err.Error())
			continue
		}
		if raw.String == "" {
			continue
		}
		labels := make([]string, 0)
		for _, label := range strings.Split(raw.String, "|") {
			if label = strings.TrimSpace(label); label != "" {
				labels = append(labels, label)
			}
		}
		if len(labels) > 0 {
			subjects[recordID] = labels
		}
	}
	return subjects, rows.Err()
}

// LoadTitles returns the dataset titles used for documentation
// text-quality analysis.
func (r *Repository) LoadTitles() ([]string, error) {
	rows, err := r.db.Query(`SELECT title FROM dataset_metadata WHERE title IS NOT NULL AND title != ''`)
	if err != nil {
		return nil, fmt.Errorf("failed to query titles: %w", err)
	}
	defer rows.Close()

	titles := make([]string, 0)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			continue
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// snapshotPayload is the persisted form of a completed run.
type snapshotPayload struct {
	Scores []types.UserScore   `json:"scores"`
	Teams  []types.TeamMetrics `json:"teams"`
}

// SaveSnapshot persists a completed run's results so the last-good
// snapshot survives restarts.
func (r *Repository) SaveSnapshot(runID string, scores []types.UserScore, teams []types.TeamMetrics) error {
	payload, err := json.Marshal(snapshotPayload{Scores: scores, Teams: teams})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO score_snapshots (run_id, payload, created_at) VALUES (?, ?, ?)
	`, runID, string(payload), time.Now())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadLatestSnapshot returns the most recent persisted run results, or
// nils when none exist.
func (r *Repository) LoadLatestSnapshot() ([]types.UserScore, []types.TeamMetrics, error) {
	var raw string
	err := r.db.QueryRow(`
		SELECT payload FROM score_snapshots ORDER BY created_at DESC LIMIT 1
	`).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var payload snapshotPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return payload.Scores, payload.Teams, nil
}

// DataStats summarizes the stored feeds for the stats endpoint.
func (r *Repository) DataStats() (map[string]interface{}, error) {
	interactions, err := r.CountInteractions()
	if err != nil {
		return nil, err
	}

	var datasets int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM dataset_metadata`).Scan(&datasets); err != nil {
		return nil, fmt.Errorf("failed to count metadata: %w", err)
	}

	stats := map[string]interface{}{
		"total_interactions": interactions,
		"total_datasets":     datasets,
		"processing_date":    time.Now().Format(time.RFC3339),
	}

	var start, end sql.NullString
	err = r.db.QueryRow(`SELECT MIN(ts), MAX(ts) FROM interactions`).Scan(&start, &end)
	if err == nil && start.Valid {
		stats["date_range"] = map[string]string{"start": start.String, "end": end.String}
	}

	return stats, nil
}
