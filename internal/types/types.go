package types

import "time"

// InteractionRecord represents one logged event from the search/catalog
// front end. Records are immutable once ingested.
type InteractionRecord struct {
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	RecordID  string    `json:"record_id"`
	Referrer  string    `json:"referrer"`
}

// SessionSummary holds per-(user, session) aggregates. Summaries live
// only for the duration of a single pipeline run.
type SessionSummary struct {
	UserID            string    `json:"user_id"`
	SessionID         string    `json:"session_id"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	InteractionCount  int       `json:"interaction_count"`
	UniqueRecordCount int       `json:"unique_record_count"`
	EventDiversity    int       `json:"event_diversity"`
	DurationMinutes   float64   `json:"duration_minutes"`
}

// UserFeatureVector is the per-user feature table row consumed by the
// pillar scorers.
type UserFeatureVector struct {
	UserID                    string  `json:"user_id"`
	TotalSessions             float64 `json:"total_sessions"`
	TotalInteractions         float64 `json:"total_interactions"`
	AvgInteractionsPerSession float64 `json:"avg_interactions_per_session"`
	TotalUniqueRecords        float64 `json:"total_unique_records"`
	AvgUniqueRecordsPerSess   float64 `json:"avg_unique_records_per_session"`
	TotalSessionTime          float64 `json:"total_session_time"`
	AvgSessionDuration        float64 `json:"avg_session_duration"`
	AvgEventDiversity         float64 `json:"avg_event_diversity"`
	ActivitySpanDays          float64 `json:"activity_span_days"`
	SessionsPerDay            float64 `json:"sessions_per_day"`
	UniqueSubjectCount        float64 `json:"unique_subject_count"`
	SubjectDiversityScore     float64 `json:"subject_diversity_score"`
}

// UserScore is the authoritative per-user result of a scoring run.
// OverallScore is the weighted sum of the four pillar scores and
// PercentileRank is rank-based over the run's population.
type UserScore struct {
	UserID             string    `json:"user_id"`
	DiscoveryScore     float64   `json:"discovery_score"`
	CollaborationScore float64   `json:"collaboration_score"`
	DocumentationScore float64   `json:"documentation_score"`
	ReuseScore         float64   `json:"reuse_score"`
	OverallScore       float64   `json:"overall_score"`
	PercentileRank     float64   `json:"percentile_rank"`
	ComputedAt         time.Time `json:"computed_at"`
}

// Pillar returns the named pillar score.
func (u UserScore) Pillar(name string) float64 {
	switch name {
	case "discovery":
		return u.DiscoveryScore
	case "collaboration":
		return u.CollaborationScore
	case "documentation":
		return u.DocumentationScore
	case "reuse":
		return u.ReuseScore
	}
	return 0
}

// TeamMetrics describes a synthetic team derived from clustering. It is
// a view regenerated on every run, never authoritative storage.
type TeamMetrics struct {
	TeamID               string   `json:"team_id"`
	TeamName             string   `json:"team_name"`
	MemberCount          int      `json:"member_count"`
	MemberUserIDs        []string `json:"member_user_ids"`
	AvgNeuraScore        float64  `json:"avg_neurascore"`
	AvgDiscoveryScore    float64  `json:"avg_discovery_score"`
	AvgCollaborationScr  float64  `json:"avg_collaboration_score"`
	AvgDocumentationScr  float64  `json:"avg_documentation_score"`
	AvgReuseScore        float64  `json:"avg_reuse_score"`
	TopPerformers        []string `json:"top_performers"`
	CollaborationIndex   float64  `json:"collaboration_index"`
	ImprovementPotential float64  `json:"improvement_potential"`
}

// ImpactLevel classifies how urgent an insight is.
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// TargetEntity identifies what an insight is about.
type TargetEntity string

const (
	TargetUser         TargetEntity = "user"
	TargetTeam         TargetEntity = "team"
	TargetOrganization TargetEntity = "organization"
)

// Insight is a rule-generated recommendation. Insights are immutable
// after creation and regenerated wholesale each run.
type Insight struct {
	ID            string       `json:"id"`
	Type          string       `json:"type"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	ImpactLevel   ImpactLevel  `json:"impact_level"`
	TargetEntity  TargetEntity `json:"target_entity"`
	TargetID      string       `json:"target_id"`
	ActionItems   []string     `json:"action_items"`
	PriorityScore int          `json:"priority_score"`
	CreatedAt     time.Time    `json:"created_at"`
}

// RunStatus enumerates pipeline run states.
type RunStatus string

const (
	StatusIdle       RunStatus = "idle"
	StatusProcessing RunStatus = "processing"
	StatusCompleted  RunStatus = "completed"
	StatusError      RunStatus = "error"
)

// ProcessingStatus reflects the state of the (single) pipeline run slot.
type ProcessingStatus struct {
	Status      RunStatus `json:"status"`
	Progress    float64   `json:"progress"`
	Message     string    `json:"message"`
	LastUpdated time.Time `json:"last_updated"`
	RunID       string    `json:"run_id,omitempty"`
}

// DistributionStats holds summary statistics for one score dimension.
type DistributionStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// ScoreDistribution summarises a run's score population: overall stats,
// per-pillar stats, and counts in the fixed proficiency buckets.
type ScoreDistribution struct {
	Overall  DistributionStats            `json:"overall"`
	ByPillar map[string]DistributionStats `json:"by_pillar"`
	// ScoreRanges buckets users at the 40/60/80 overall-score cuts:
	// expert >=80, advanced [60,80), intermediate [40,60), beginner <40.
	ScoreRanges map[string]int `json:"score_ranges"`
}
