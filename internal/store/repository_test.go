package store

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/monitoring"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db, monitoring.NewLogger(slog.LevelError))
}

func TestInsertAndLoadInteractions(t *testing.T) {
	repo := testRepo(t)
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	records := []types.InteractionRecord{
		{UserID: "u1", SessionID: "s1", Timestamp: base.Add(time.Hour), EventType: "view", RecordID: "r1", Referrer: "google.com"},
		{UserID: "u1", SessionID: "s1", Timestamp: base, EventType: "search", RecordID: "r2"},
	}

	require.NoError(t, repo.InsertInteractions(records))

	loaded, err := repo.LoadInteractions(100)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// ordered by timestamp
	assert.Equal(t, "search", loaded[0].EventType)
	assert.Equal(t, "view", loaded[1].EventType)
	assert.Equal(t, "google.com", loaded[1].Referrer)
	assert.Equal(t, "u1", loaded[0].UserID)

	count, err := repo.CountInteractions()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestLoadInteractionsRespectsLimit(t *testing.T) {
	repo := testRepo(t)
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	records := make([]types.InteractionRecord, 10)
	for i := range records {
		records[i] = types.InteractionRecord{
			UserID:    "u1",
			SessionID: "s1",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			EventType: "view",
		}
	}
	require.NoError(t, repo.InsertInteractions(records))

	loaded, err := repo.LoadInteractions(3)
	require.NoError(t, err)
	assert.Len(t, loaded, 3)
}

func TestUpsertMetadataAndLoadSubjects(t *testing.T) {
	repo := testRepo(t)

	require.NoError(t, repo.UpsertMetadata("r1", "Rainfall measurements", []string{"climate", "water"}))
	require.NoError(t, repo.UpsertMetadata("r2", "Traffic counts", nil))
	// upsert replaces the earlier row
	require.NoError(t, repo.UpsertMetadata("r1", "Rainfall measurements v2", []string{"climate"}))

	subjects, err := repo.LoadSubjectsByRecord()
	require.NoError(t, err)

	assert.Equal(t, []string{"climate"}, subjects["r1"])
	// records without subjects are omitted entirely
	_, ok := subjects["r2"]
	assert.False(t, ok)

	titles, err := repo.LoadTitles()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Rainfall measurements v2", "Traffic counts"}, titles)
}

func TestSnapshotRoundTrip(t *testing.T) {
	repo := testRepo(t)

	scores := []types.UserScore{
		{UserID: "u1", OverallScore: 72.5, DiscoveryScore: 80, PercentileRank: 100},
	}
	teams := []types.TeamMetrics{
		{TeamID: "team_01", TeamName: "Data Explorers", MemberCount: 1, MemberUserIDs: []string{"u1"}},
	}

	require.NoError(t, repo.SaveSnapshot("run-1", scores, teams))

	gotScores, gotTeams, err := repo.LoadLatestSnapshot()
	require.NoError(t, err)
	require.Len(t, gotScores, 1)
	require.Len(t, gotTeams, 1)

	assert.Equal(t, "u1", gotScores[0].UserID)
	assert.InDelta(t, 72.5, gotScores[0].OverallScore, 1e-9)
	assert.Equal(t, "team_01", gotTeams[0].TeamID)
}

func TestLoadLatestSnapshotEmptyStore(t *testing.T) {
	repo := testRepo(t)

	scores, teams, err := repo.LoadLatestSnapshot()
	require.NoError(t, err)
	assert.Nil(t, scores)
	assert.Nil(t, teams)
}

func TestDataStats(t *testing.T) {
	repo := testRepo(t)

	require.NoError(t, repo.UpsertMetadata("r1", "Rainfall", []string{"climate"}))
	require.NoError(t, repo.InsertInteractions([]types.InteractionRecord{
		{UserID: "u1", SessionID: "s1", Timestamp: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), EventType: "view"},
	}))

	stats, err := repo.DataStats()
	require.NoError(t, err)

	assert.Equal(t, 1, stats["total_interactions"])
	assert.Equal(t, 1, stats["total_datasets"])
	assert.Contains(t, stats, "date_range")
}
