package analysis

import (
	"sort"
	"time"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/monitoring"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

// Aggregator collapses raw interaction records into per-session and
// per-user summaries.
type Aggregator struct {
	logger *monitoring.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(logger *monitoring.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

type sessionKey struct {
	userID    string
	sessionID string
}

// BuildSessionSummaries groups records by (user, session) and computes
// SessionSummary rows. Malformed records (zero timestamp, missing user
// or session id) are dropped with a warning rather than aborting; the
// dropped count is returned. A session emptied by drops simply does not
// appear in the output.
func (a *Aggregator) BuildSessionSummaries(records []types.InteractionRecord) ([]types.SessionSummary, int) {
	type sessionAcc struct {
		start      time.Time
		end        time.Time
		count      int
		recordIDs  map[string]struct{}
		eventTypes map[string]struct{}
	}

	groups := make(map[sessionKey]*sessionAcc)
	dropped := 0

	for _, r := range records {
		if r.Timestamp.IsZero() || r.UserID == "" || r.SessionID == "" {
			dropped++
			a.logger.DataQualityLogger("malformed_record", map[string]string{
				"user_id":    r.UserID,
				"session_id": r.SessionID,
			})
			continue
		}

		key := sessionKey{userID: r.UserID, sessionID: r.SessionID}
		acc, ok := groups[key]
		if !ok {
			acc = &sessionAcc{
				start:      r.Timestamp,
				end:        r.Timestamp,
				recordIDs:  make(map[string]struct{}),
				eventTypes: make(map[string]struct{}),
			}
			groups[key] = acc
		}

		if r.Timestamp.Before(acc.start) {
			acc.start = r.Timestamp
		}
		if r.Timestamp.After(acc.end) {
			acc.end = r.Timestamp
		}
		acc.count++
		if r.RecordID != "" {
			acc.recordIDs[r.RecordID] = struct{}{}
		}
		if r.EventType != "" {
			acc.eventTypes[r.EventType] = struct{}{}
		}
	}

	summaries := make([]types.SessionSummary, 0, len(groups))
	for key, acc := range groups {
		summaries = append(summaries, types.SessionSummary{
			UserID:            key.userID,
			SessionID:         key.sessionID,
			StartTime:         acc.start,
			EndTime:           acc.end,
			InteractionCount:  acc.count,
			UniqueRecordCount: len(acc.recordIDs),
			EventDiversity:    len(acc.eventTypes),
			DurationMinutes:   acc.end.Sub(acc.start).Minutes(),
		})
	}

	// Deterministic output order regardless of map iteration above.
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].UserID != summaries[j].UserID {
			return summaries[i].UserID < summaries[j].UserID
		}
		return summaries[i].SessionID < summaries[j].SessionID
	})

	return summaries, dropped
}

// BuildUserFeatures aggregates session summaries into one feature
// vector per user. subjectsByUser carries each user's flattened subject
// label multiset for the diversity metrics; users without labels get a
// diversity score of 0.
func (a *Aggregator) BuildUserFeatures(sessions []types.SessionSummary, subjectsByUser map[string][]string) []types.UserFeatureVector {
	type userAcc struct {
		sessions       int
		interactions   int
		uniqueRecords  int
		sessionTime    float64
		eventDiversity int
		firstActivity  time.Time
		lastActivity   time.Time
	}

	users := make(map[string]*userAcc)

	for _, s := range sessions {
		acc, ok := users[s.UserID]
		if !ok {
			acc = &userAcc{firstActivity: s.StartTime, lastActivity: s.StartTime}
			users[s.UserID] = acc
		}

		acc.sessions++
		acc.interactions += s.InteractionCount
		acc.uniqueRecords += s.UniqueRecordCount
		acc.sessionTime += s.DurationMinutes
		acc.eventDiversity += s.EventDiversity
		if s.StartTime.Before(acc.firstActivity) {
			acc.firstActivity = s.StartTime
		}
		if s.StartTime.After(acc.lastActivity) {
			acc.lastActivity = s.StartTime
		}
	}

	features := make([]types.UserFeatureVector, 0, len(users))
	for userID, acc := range users {
		n := float64(acc.sessions)

		// A single-session user spans one day by definition, which also
		// keeps sessions_per_day well defined.
		spanDays := float64(daysBetween(acc.firstActivity, acc.lastActivity)) + 1

		labels := subjectsByUser[userID]

		features = append(features, types.UserFeatureVector{
			UserID:                    userID,
			TotalSessions:             n,
			TotalInteractions:         float64(acc.interactions),
			AvgInteractionsPerSession: float64(acc.interactions) / n,
			TotalUniqueRecords:        float64(acc.uniqueRecords),
			AvgUniqueRecordsPerSess:   float64(acc.uniqueRecords) / n,
			TotalSessionTime:          acc.sessionTime,
			AvgSessionDuration:        acc.sessionTime / n,
			AvgEventDiversity:         float64(acc.eventDiversity) / n,
			ActivitySpanDays:          spanDays,
			SessionsPerDay:            n / spanDays,
			UniqueSubjectCount:        float64(UniqueCount(labels)),
			SubjectDiversityScore:     ShannonIndex(labels),
		})
	}

	// Deterministic output order regardless of map iteration above.
	sort.Slice(features, func(i, j int) bool { return features[i].UserID < features[j].UserID })

	return features
}

// daysBetween counts whole days from a to b.
func daysBetween(a, b time.Time) int {
	if b.Before(a) {
		a, b = b, a
	}
	return int(b.Sub(a).Hours() / 24)
}
