package analysis

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/monitoring"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

func testAggregator() *Aggregator {
	return NewAggregator(monitoring.NewLogger(slog.LevelError))
}

func TestBuildSessionSummaries(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	records := []types.InteractionRecord{
		{UserID: "u1", SessionID: "s1", Timestamp: base, EventType: "search", RecordID: "r1"},
		{UserID: "u1", SessionID: "s1", Timestamp: base.Add(10 * time.Minute), EventType: "view", RecordID: "r2"},
		{UserID: "u1", SessionID: "s1", Timestamp: base.Add(5 * time.Minute), EventType: "view", RecordID: "r1"},
		{UserID: "u2", SessionID: "s2", Timestamp: base.Add(time.Hour), EventType: "download", RecordID: "r3"},
	}

	summaries, dropped := testAggregator().BuildSessionSummaries(records)

	require.Len(t, summaries, 2)
	assert.Equal(t, 0, dropped)

	s1 := summaries[0]
	assert.Equal(t, "u1", s1.UserID)
	assert.Equal(t, 3, s1.InteractionCount)
	assert.Equal(t, 2, s1.UniqueRecordCount)
	assert.Equal(t, 2, s1.EventDiversity)
	assert.InDelta(t, 10.0, s1.DurationMinutes, 1e-9)
	assert.Equal(t, base, s1.StartTime)

	s2 := summaries[1]
	assert.Equal(t, "u2", s2.UserID)
	assert.Equal(t, 1, s2.InteractionCount)
	assert.InDelta(t, 0.0, s2.DurationMinutes, 1e-9)
}

func TestBuildSessionSummariesDropsMalformedRecords(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		record  types.InteractionRecord
		dropped int
	}{
		{
			name:    "zero timestamp",
			record:  types.InteractionRecord{UserID: "u1", SessionID: "s1", EventType: "search"},
			dropped: 1,
		},
		{
			name:    "missing user id",
			record:  types.InteractionRecord{SessionID: "s1", Timestamp: base},
			dropped: 1,
		},
		{
			name:    "missing session id",
			record:  types.InteractionRecord{UserID: "u1", Timestamp: base},
			dropped: 1,
		},
		{
			name:    "well formed",
			record:  types.InteractionRecord{UserID: "u1", SessionID: "s1", Timestamp: base},
			dropped: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summaries, dropped := testAggregator().BuildSessionSummaries([]types.InteractionRecord{tt.record})
			assert.Equal(t, tt.dropped, dropped)
			assert.Len(t, summaries, 1-tt.dropped)
		})
	}
}

func TestBuildSessionSummariesSortedOutput(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	// input order deliberately scrambled
	records := []types.InteractionRecord{
		{UserID: "u2", SessionID: "s9", Timestamp: base},
		{UserID: "u1", SessionID: "s2", Timestamp: base},
		{UserID: "u2", SessionID: "s1", Timestamp: base},
		{UserID: "u1", SessionID: "s1", Timestamp: base},
	}

	summaries, dropped := testAggregator().BuildSessionSummaries(records)
	require.Len(t, summaries, 4)
	assert.Equal(t, 0, dropped)

	for i := 1; i < len(summaries); i++ {
		prev, cur := summaries[i-1], summaries[i]
		less := prev.UserID < cur.UserID ||
			(prev.UserID == cur.UserID && prev.SessionID < cur.SessionID)
		assert.True(t, less, "summaries not sorted at index %d", i)
	}
}

func TestBuildUserFeatures(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	sessions := []types.SessionSummary{
		{UserID: "u1", SessionID: "s1", StartTime: base, InteractionCount: 4, UniqueRecordCount: 2, EventDiversity: 2, DurationMinutes: 20},
		{UserID: "u1", SessionID: "s2", StartTime: base.AddDate(0, 0, 1), InteractionCount: 6, UniqueRecordCount: 4, EventDiversity: 3, DurationMinutes: 40},
		{UserID: "u0", SessionID: "s3", StartTime: base, InteractionCount: 1, UniqueRecordCount: 1, EventDiversity: 1, DurationMinutes: 0},
	}
	subjects := map[string][]string{
		"u1": {"health", "transport", "health"},
	}

	features := testAggregator().BuildUserFeatures(sessions, subjects)
	require.Len(t, features, 2)

	// output is sorted by user id
	assert.Equal(t, "u0", features[0].UserID)
	assert.Equal(t, "u1", features[1].UserID)

	u1 := features[1]
	assert.InDelta(t, 2.0, u1.TotalSessions, 1e-9)
	assert.InDelta(t, 10.0, u1.TotalInteractions, 1e-9)
	assert.InDelta(t, 5.0, u1.AvgInteractionsPerSession, 1e-9)
	assert.InDelta(t, 6.0, u1.TotalUniqueRecords, 1e-9)
	assert.InDelta(t, 60.0, u1.TotalSessionTime, 1e-9)
	assert.InDelta(t, 30.0, u1.AvgSessionDuration, 1e-9)
	assert.InDelta(t, 2.5, u1.AvgEventDiversity, 1e-9)
	// two calendar days of activity
	assert.InDelta(t, 2.0, u1.ActivitySpanDays, 1e-9)
	assert.InDelta(t, 1.0, u1.SessionsPerDay, 1e-9)
	assert.InDelta(t, 2.0, u1.UniqueSubjectCount, 1e-9)
	assert.Greater(t, u1.SubjectDiversityScore, 0.0)

	// user without subject labels scores zero diversity
	u0 := features[0]
	assert.InDelta(t, 0.0, u0.SubjectDiversityScore, 1e-9)
	assert.InDelta(t, 1.0, u0.ActivitySpanDays, 1e-9)
}
