// Package pipeline orchestrates scoring runs. A Runner owns the single
// run slot, the processing status, and the published result snapshot.
package pipeline

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/analysis"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/cache"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/cluster"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/config"
	apperrors "github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/errors"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/identity"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/insights"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/monitoring"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/nlp"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/sample"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/store"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

// Snapshot is the immutable result of one successful run. Readers get
// the whole struct through an atomic pointer, so a snapshot is never
// mutated after publication.
type Snapshot struct {
	RunID        string                  `json:"run_id"`
	GeneratedAt  time.Time               `json:"generated_at"`
	Scores       []types.UserScore       `json:"scores"`
	Teams        []types.TeamMetrics     `json:"teams"`
	Insights     []types.Insight         `json:"insights"`
	Distribution types.ScoreDistribution `json:"distribution"`
	RecordCount  int                     `json:"record_count"`
	DroppedCount int                     `json:"dropped_count"`
}

// Runner executes scoring runs one at a time. Triggers race on a CAS
// flag; the loser gets a conflict error and the in-flight run is
// untouched. Results swap in atomically on success only, so read
// endpoints always serve the last good snapshot.
type Runner struct {
	cfg          *config.Config
	repo         *store.Repository
	resolver     identity.Resolver
	agg          *analysis.Aggregator
	clusterer    *cluster.Clusterer
	generator    *insights.Generator
	textAnalyzer *nlp.Analyzer
	respCache    *cache.Cache
	metrics      *monitoring.Metrics
	logger       *monitoring.Logger

	running  int32
	status   atomic.Value               // types.ProcessingStatus
	snapshot atomic.Pointer[Snapshot]
}

// NewRunner wires a runner over the store and the analysis stack and
// rehydrates the last persisted snapshot so reads work across restarts.
func NewRunner(
	cfg *config.Config,
	repo *store.Repository,
	resolver identity.Resolver,
	respCache *cache.Cache,
	metrics *monitoring.Metrics,
	logger *monitoring.Logger,
) *Runner {
	textAnalyzer := nlp.NewAnalyzer()
	r := &Runner{
		cfg:          cfg,
		repo:         repo,
		resolver:     resolver,
		agg:          analysis.NewAggregator(logger),
		clusterer:    cluster.NewClusterer(cfg.ClusterSeed),
		generator:    insights.NewGenerator(textAnalyzer),
		textAnalyzer: textAnalyzer,
		respCache:    respCache,
		metrics:      metrics,
		logger:       logger,
	}
	r.setStatus(types.StatusIdle, 0, "no run has been executed yet", "")

	r.rehydrate()

	return r
}

// rehydrate republishes the last persisted snapshot, regenerating the
// derived pieces (insights, distribution) that are not stored.
func (r *Runner) rehydrate() {
	scores, teams, err := r.repo.LoadLatestSnapshot()
	if err != nil {
		r.logger.Warn("Persisted snapshot could not be restored", "error", err)
		return
	}
	if len(scores) == 0 {
		return
	}

	titles, _ := r.repo.LoadTitles()

	snap := &Snapshot{
		RunID:        uuid.New().String(),
		GeneratedAt:  time.Now().UTC(),
		Scores:       scores,
		Teams:        teams,
		Insights:     r.generator.Generate(scores, teams, titles),
		Distribution: analysis.Distribution(scores),
		RecordCount:  len(scores),
	}
	r.snapshot.Store(snap)
	r.setStatus(types.StatusCompleted, 100, "restored last persisted snapshot", snap.RunID)
	r.logger.SystemLogger("snapshot_restored", fmt.Sprintf("%d users", len(scores)))
}

// TriggerIngest starts an ingest-then-score run: synthesize interaction
// data, persist it, then execute the scoring stages. Returns the run id
// or a conflict error when a run is already in flight.
func (r *Runner) TriggerIngest() (string, error) {
	return r.trigger(true)
}

// TriggerScore starts a scoring run over the data already in the store.
func (r *Runner) TriggerScore() (string, error) {
	return r.trigger(false)
}

func (r *Runner) trigger(ingest bool) (string, error) {
	if !atomic.CompareAndSwapInt32(&r.running, 0, 1) {
		r.metrics.RecordRunRejected()
		return "", apperrors.NewConflictError("a scoring run is already in progress")
	}

	runID := uuid.New().String()
	r.metrics.RecordRunStarted()
	r.setStatus(types.StatusProcessing, 0, "run accepted", runID)

	go func() {
		defer atomic.StoreInt32(&r.running, 0)

		start := time.Now()
		if err := r.run(runID, ingest); err != nil {
			r.metrics.RecordRunFailed()
			r.setStatus(types.StatusError, 0, err.Error(), runID)
			r.logger.SystemLogger("run_failed", err.Error())
			return
		}
		r.metrics.RecordRunCompleted()
		r.logger.ScoringLogger(runID, len(r.Current().Scores), r.Current().Distribution.Overall.Mean, time.Since(start))
	}()

	return runID, nil
}

// run executes the pipeline stages sequentially. Any stage error aborts
// the run; the previously published snapshot stays in place.
func (r *Runner) run(runID string, ingest bool) error {
	if ingest {
		if err := r.ingest(runID); err != nil {
			return err
		}
	}

	stageStart := time.Now()
	records, err := r.repo.LoadInteractions(r.cfg.MaxRecords)
	if err != nil {
		return apperrors.NewComputationError("loading interactions failed", err)
	}
	if len(records) == 0 {
		return apperrors.NewInsufficientDataError("no interaction records in store", 0, 1)
	}
	records = r.resolver.Resolve(records)
	r.logger.StageLogger(runID, "load", len(records), time.Since(stageStart))
	r.setStatus(types.StatusProcessing, 10, "interactions loaded", runID)

	stageStart = time.Now()
	sessions, dropped := r.agg.BuildSessionSummaries(records)
	if dropped > 0 {
		r.metrics.AddRecordsDropped(dropped)
	}
	r.logger.StageLogger(runID, "sessions", len(sessions), time.Since(stageStart))
	r.setStatus(types.StatusProcessing, 30, "sessions summarised", runID)

	stageStart = time.Now()
	subjectsByRecord, err := r.repo.LoadSubjectsByRecord()
	if err != nil {
		return apperrors.NewComputationError("loading dataset metadata failed", err)
	}
	subjectsByUser := subjectLabels(records, subjectsByRecord)
	r.logger.StageLogger(runID, "enrich", len(subjectsByRecord), time.Since(stageStart))
	r.setStatus(types.StatusProcessing, 50, "metadata joined", runID)

	stageStart = time.Now()
	features := r.agg.BuildUserFeatures(sessions, subjectsByUser)
	r.metrics.AddRecordsLoaded(len(records))
	r.logger.StageLogger(runID, "user_metrics", len(features), time.Since(stageStart))
	r.setStatus(types.StatusProcessing, 70, "user metrics built", runID)

	stageStart = time.Now()
	scores, err := analysis.ComputeScores(features)
	if err != nil {
		return err
	}
	teams := r.clusterer.ComputeTeamMetrics(scores)

	titles, err := r.repo.LoadTitles()
	if err != nil {
		return apperrors.NewComputationError("loading documentation texts failed", err)
	}
	generated := r.generator.Generate(scores, teams, titles)
	r.logger.StageLogger(runID, "scores", len(scores), time.Since(stageStart))

	// Scores keep computation order; the descending sort is a
	// presentation concern applied in UserScores.
	snap := &Snapshot{
		RunID:        runID,
		GeneratedAt:  time.Now().UTC(),
		Scores:       scores,
		Teams:        teams,
		Insights:     generated,
		Distribution: analysis.Distribution(scores),
		RecordCount:  len(records),
		DroppedCount: dropped,
	}

	if err := r.repo.SaveSnapshot(runID, snap.Scores, snap.Teams); err != nil {
		// Persistence failure is not fatal for the run itself: the
		// snapshot is still valid in memory.
		r.logger.SystemLogger("snapshot_persist_failed", err.Error())
	}

	r.snapshot.Store(snap)
	r.metrics.SetUsersScored(len(scores))
	r.respCache.Clear()
	r.setStatus(types.StatusCompleted, 100, fmt.Sprintf("scored %d users", len(scores)), runID)

	return nil
}

// ingest seeds the store with a fresh synthetic batch. Identity is
// resolved at scoring time, not here, so raw records keep their
// original (possibly empty) user ids.
func (r *Runner) ingest(runID string) error {
	gen := sample.NewGenerator(time.Now().UnixNano())
	datasets := gen.Datasets(r.cfg.SampleUserCount * 2)
	records := gen.Interactions(r.cfg.SampleUserCount, datasets)

	for _, d := range datasets {
		if err := r.repo.UpsertMetadata(d.RecordID, d.Title, d.Subjects); err != nil {
			return apperrors.NewComputationError("persisting dataset metadata failed", err)
		}
	}
	if err := r.repo.InsertInteractions(records); err != nil {
		return apperrors.NewComputationError("persisting interactions failed", err)
	}

	r.logger.StageLogger(runID, "ingest", len(records), 0)
	return nil
}

// subjectLabels flattens dataset subjects into a per-user label
// multiset. Repeated visits to the same dataset count repeatedly, which
// is what the entropy-based diversity metrics expect.
func subjectLabels(records []types.InteractionRecord, subjectsByRecord map[string][]string) map[string][]string {
	out := make(map[string][]string)
	for _, rec := range records {
		subjects, ok := subjectsByRecord[rec.RecordID]
		if !ok {
			continue
		}
		out[rec.UserID] = append(out[rec.UserID], subjects...)
	}
	return out
}

func (r *Runner) setStatus(s types.RunStatus, progress float64, message, runID string) {
	r.status.Store(types.ProcessingStatus{
		Status:      s,
		Progress:    progress,
		Message:     message,
		LastUpdated: time.Now().UTC(),
		RunID:       runID,
	})
}

// Status returns a copy of the current processing status.
func (r *Runner) Status() types.ProcessingStatus {
	return r.status.Load().(types.ProcessingStatus)
}

// Current returns the published snapshot, or nil before the first
// successful run.
func (r *Runner) Current() *Snapshot {
	return r.snapshot.Load()
}

// UserScores pages through the snapshot's scores, sorted by overall
// score descending.
func (r *Runner) UserScores(limit, offset int) ([]types.UserScore, error) {
	snap := r.Current()
	if snap == nil {
		return nil, apperrors.NewInsufficientDataError("no scores computed yet", 0, 1)
	}

	scores := analysis.SortByOverallDesc(snap.Scores)
	if offset >= len(scores) {
		return []types.UserScore{}, nil
	}
	scores = scores[offset:]
	if limit > 0 && limit < len(scores) {
		scores = scores[:limit]
	}
	return scores, nil
}

// Teams returns the snapshot's team metrics.
func (r *Runner) Teams() ([]types.TeamMetrics, error) {
	snap := r.Current()
	if snap == nil {
		return nil, apperrors.NewInsufficientDataError("no team metrics computed yet", 0, 1)
	}
	return snap.Teams, nil
}

// Insights returns the snapshot's insights, optionally filtered by
// target entity type and id.
func (r *Runner) Insights(entityType, entityID string) ([]types.Insight, error) {
	snap := r.Current()
	if snap == nil {
		return nil, apperrors.NewInsufficientDataError("no insights generated yet", 0, 1)
	}
	return insights.Filter(snap.Insights, entityType, entityID), nil
}

// Distribution returns the snapshot's score distribution.
func (r *Runner) Distribution() (types.ScoreDistribution, error) {
	snap := r.Current()
	if snap == nil {
		return types.ScoreDistribution{}, apperrors.NewInsufficientDataError("no distribution computed yet", 0, 1)
	}
	return snap.Distribution, nil
}

// Patterns runs usage-pattern analysis over the snapshot's population.
func (r *Runner) Patterns() (*cluster.PatternAnalysis, error) {
	snap := r.Current()
	if snap == nil {
		return nil, apperrors.NewInsufficientDataError("no scores computed yet", 0, 1)
	}
	return cluster.AnalyzePatterns(snap.Scores)
}

// Trends forecasts score trajectories from the snapshot's population.
func (r *Runner) Trends() (*cluster.TrendForecast, error) {
	snap := r.Current()
	if snap == nil {
		return nil, apperrors.NewInsufficientDataError("no scores computed yet", 0, 1)
	}
	return cluster.PredictTrends(snap.Scores)
}

// TeamDynamics assesses each synthetic team's collaboration, skill
// spread and growth headroom over the snapshot's member scores.
func (r *Runner) TeamDynamics() (*cluster.DynamicsReport, error) {
	snap := r.Current()
	if snap == nil {
		return nil, apperrors.NewInsufficientDataError("no team metrics computed yet", 0, 1)
	}
	return cluster.AnalyzeTeamDynamics(snap.Teams, snap.Scores)
}

// Alerts scans the snapshot's population for intervention-worthy
// conditions.
func (r *Runner) Alerts() (*insights.AlertReport, error) {
	snap := r.Current()
	if snap == nil {
		return nil, apperrors.NewInsufficientDataError("no scores computed yet", 0, 1)
	}
	return insights.GenerateAlerts(snap.Scores), nil
}

// SkillGaps reports per-pillar averages and tail counts for the
// snapshot's population.
func (r *Runner) SkillGaps() (*insights.SkillGapReport, error) {
	snap := r.Current()
	if snap == nil {
		return nil, apperrors.NewInsufficientDataError("no scores computed yet", 0, 1)
	}
	return insights.AnalyzeSkillGaps(snap.Scores), nil
}

// Benchmark compares the snapshot's population averages against the
// fixed industry references.
func (r *Runner) Benchmark() (*insights.BenchmarkReport, error) {
	snap := r.Current()
	if snap == nil {
		return nil, apperrors.NewInsufficientDataError("no scores computed yet", 0, 1)
	}
	return insights.BenchmarkAgainstIndustry(snap.Scores), nil
}

// DocumentationInsights aggregates text-quality analysis over the
// stored dataset titles. It reads the store directly rather than the
// snapshot because metadata does not depend on a completed run.
func (r *Runner) DocumentationInsights() (nlp.CorpusInsights, error) {
	titles, err := r.repo.LoadTitles()
	if err != nil {
		return nlp.CorpusInsights{}, apperrors.NewComputationError("loading documentation texts failed", err)
	}
	if len(titles) == 0 {
		return nlp.CorpusInsights{}, apperrors.NewInsufficientDataError("no documentation texts stored", 0, 1)
	}
	return r.textAnalyzer.AnalyzeCorpus(titles), nil
}
