package pipeline

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/cache"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/config"
	apperrors "github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/errors"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/identity"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/monitoring"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/sample"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/store"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

func testRunner(t *testing.T, seed bool) (*Runner, *store.Repository) {
	t.Helper()

	logger := monitoring.NewLogger(slog.LevelError)
	db, err := store.NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := store.NewRepository(db, logger)

	if seed {
		gen := sample.NewGenerator(42)
		datasets := gen.Datasets(60)
		for _, d := range datasets {
			require.NoError(t, repo.UpsertMetadata(d.RecordID, d.Title, d.Subjects))
		}
		require.NoError(t, repo.InsertInteractions(gen.Interactions(30, datasets)))
	}

	cfg := config.Default()
	cfg.SampleUserCount = 12

	// sample records carry no user ids; the fingerprint resolver
	// assigns them during the run
	resolver := identity.NewFingerprintResolver(cfg.IdentityBucketHours)
	runner := NewRunner(cfg, repo, resolver, cache.New(time.Minute), monitoring.NewMetrics(), logger)
	return runner, repo
}

func waitForRun(t *testing.T, r *Runner) types.ProcessingStatus {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		status := r.Status()
		if status.Status == types.StatusCompleted || status.Status == types.StatusError {
			return status
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("run did not finish in time")
	return types.ProcessingStatus{}
}

func TestRunnerScoringRun(t *testing.T) {
	runner, _ := testRunner(t, true)

	runID, err := runner.TriggerScore()
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	status := waitForRun(t, runner)
	require.Equal(t, types.StatusCompleted, status.Status)
	assert.Equal(t, runID, status.RunID)
	assert.Equal(t, float64(100), status.Progress)

	snap := runner.Current()
	require.NotNil(t, snap)
	assert.Equal(t, runID, snap.RunID)
	assert.NotEmpty(t, snap.Scores)
	assert.NotEmpty(t, snap.Teams)
	assert.Positive(t, snap.RecordCount)

	// the snapshot keeps computation order; the accessor sorts best
	// first without touching the stored slice
	for i := 1; i < len(snap.Scores); i++ {
		assert.Less(t, snap.Scores[i-1].UserID, snap.Scores[i].UserID)
	}

	sorted, err := runner.UserScores(0, 0)
	require.NoError(t, err)
	for i := 1; i < len(sorted); i++ {
		assert.GreaterOrEqual(t, sorted[i-1].OverallScore, sorted[i].OverallScore)
	}
	assert.Equal(t, len(snap.Scores), len(sorted))
}

func TestTriggerConflictWhileRunning(t *testing.T) {
	runner, _ := testRunner(t, true)

	_, err := runner.TriggerScore()
	require.NoError(t, err)

	_, err = runner.TriggerScore()
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	// the slot reopens once the run finishes
	waitForRun(t, runner)
	_, err = runner.TriggerScore()
	require.NoError(t, err)
	waitForRun(t, runner)
}

func TestTriggerIngestPopulatesStore(t *testing.T) {
	runner, repo := testRunner(t, false)

	_, err := runner.TriggerIngest()
	require.NoError(t, err)

	status := waitForRun(t, runner)
	require.Equal(t, types.StatusCompleted, status.Status)

	count, err := repo.CountInteractions()
	require.NoError(t, err)
	assert.Positive(t, count)
	require.NotNil(t, runner.Current())
}

func TestEmptyStoreRunFails(t *testing.T) {
	runner, _ := testRunner(t, false)

	_, err := runner.TriggerScore()
	require.NoError(t, err)

	status := waitForRun(t, runner)
	assert.Equal(t, types.StatusError, status.Status)
	assert.Nil(t, runner.Current())
}

func TestAccessorsBeforeFirstRun(t *testing.T) {
	runner, _ := testRunner(t, false)

	_, err := runner.UserScores(10, 0)
	assert.True(t, apperrors.IsInsufficientData(err))

	_, err = runner.Teams()
	assert.True(t, apperrors.IsInsufficientData(err))

	_, err = runner.Insights("", "")
	assert.True(t, apperrors.IsInsufficientData(err))

	_, err = runner.Distribution()
	assert.True(t, apperrors.IsInsufficientData(err))

	_, err = runner.Patterns()
	assert.True(t, apperrors.IsInsufficientData(err))

	_, err = runner.Trends()
	assert.True(t, apperrors.IsInsufficientData(err))

	_, err = runner.TeamDynamics()
	assert.True(t, apperrors.IsInsufficientData(err))

	_, err = runner.Alerts()
	assert.True(t, apperrors.IsInsufficientData(err))

	_, err = runner.SkillGaps()
	assert.True(t, apperrors.IsInsufficientData(err))

	_, err = runner.Benchmark()
	assert.True(t, apperrors.IsInsufficientData(err))

	// documentation insights read the store, not the snapshot, so the
	// empty store is what fails here
	_, err = runner.DocumentationInsights()
	assert.True(t, apperrors.IsInsufficientData(err))
}

func TestAnalyticsAccessorsAfterRun(t *testing.T) {
	runner, _ := testRunner(t, true)

	_, err := runner.TriggerScore()
	require.NoError(t, err)
	require.Equal(t, types.StatusCompleted, waitForRun(t, runner).Status)

	dynamics, err := runner.TeamDynamics()
	require.NoError(t, err)
	assert.NotEmpty(t, dynamics.Teams)
	assert.NotEmpty(t, dynamics.CrossTeamInsights)

	alerts, err := runner.Alerts()
	require.NoError(t, err)
	assert.Equal(t, len(alerts.Alerts), alerts.TotalAlerts)

	gaps, err := runner.SkillGaps()
	require.NoError(t, err)
	assert.Len(t, gaps.Skills, 4)

	bench, err := runner.Benchmark()
	require.NoError(t, err)
	assert.Len(t, bench.Metrics, 5)
}

func TestDocumentationInsightsWithoutRun(t *testing.T) {
	runner, repo := testRunner(t, false)

	require.NoError(t, repo.UpsertMetadata("rec_1",
		"Coastal rainfall measurements aggregated monthly", []string{"climate"}))
	require.NoError(t, repo.UpsertMetadata("rec_2",
		"Atmospheric particulate concentrations collected hourly", []string{"air"}))

	got, err := runner.DocumentationInsights()
	require.NoError(t, err)
	assert.Equal(t, 2, got.TextCount)
	assert.NotEmpty(t, got.TrendingKeywords)
}

func TestUserScoresPaging(t *testing.T) {
	runner, _ := testRunner(t, true)

	_, err := runner.TriggerScore()
	require.NoError(t, err)
	require.Equal(t, types.StatusCompleted, waitForRun(t, runner).Status)

	all, err := runner.UserScores(0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, all)

	page, err := runner.UserScores(5, 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(page), 5)

	shifted, err := runner.UserScores(5, 1)
	require.NoError(t, err)
	if len(all) > 1 {
		assert.Equal(t, all[1].UserID, shifted[0].UserID)
	}

	empty, err := runner.UserScores(5, len(all)+10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRehydrateFromPersistedSnapshot(t *testing.T) {
	logger := monitoring.NewLogger(slog.LevelError)
	dir := t.TempDir()

	db, err := store.NewDB(dir)
	require.NoError(t, err)
	repo := store.NewRepository(db, logger)

	gen := sample.NewGenerator(7)
	datasets := gen.Datasets(40)
	for _, d := range datasets {
		require.NoError(t, repo.UpsertMetadata(d.RecordID, d.Title, d.Subjects))
	}
	require.NoError(t, repo.InsertInteractions(gen.Interactions(20, datasets)))

	cfg := config.Default()
	resolver := identity.NewFingerprintResolver(cfg.IdentityBucketHours)
	first := NewRunner(cfg, repo, resolver, cache.New(time.Minute), monitoring.NewMetrics(), logger)
	_, err = first.TriggerScore()
	require.NoError(t, err)
	require.Equal(t, types.StatusCompleted, waitForRun(t, first).Status)
	scored := len(first.Current().Scores)
	require.NoError(t, db.Close())

	// a new process over the same data directory serves the last snapshot
	db2, err := store.NewDB(dir)
	require.NoError(t, err)
	t.Cleanup(func() { db2.Close() })
	repo2 := store.NewRepository(db2, logger)

	second := NewRunner(cfg, repo2, resolver, cache.New(time.Minute), monitoring.NewMetrics(), logger)
	snap := second.Current()
	require.NotNil(t, snap)
	assert.Len(t, snap.Scores, scored)
	assert.Equal(t, types.StatusCompleted, second.Status().Status)
}
